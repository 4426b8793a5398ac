package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/converse/core"
)

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		path string
		want MediaType
	}{
		{"notes.txt", MediaText},
		{"README.md", MediaMarkdown},
		{"guide.markdown", MediaMarkdown},
		{"manual.pdf", MediaPDF},
		{"report.docx", MediaDocx},
		{"dir/UPPER.TXT", MediaText},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectMediaType(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectMediaTypeRejectsUnsupported(t *testing.T) {
	for _, path := range []string{"archive.zip", "image.png", "noextension", "data.csv"} {
		t.Run(path, func(t *testing.T) {
			_, err := DetectMediaType(path)
			assert.ErrorIs(t, err, core.ErrConfiguration)
		})
	}
}
