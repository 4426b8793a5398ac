package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/converse/core"
)

// MediaType identifies a supported source document format.
type MediaType int

const (
	MediaText MediaType = iota + 1
	MediaMarkdown
	MediaPDF
	MediaDocx
)

// String returns the media type name.
func (m MediaType) String() string {
	switch m {
	case MediaText:
		return "text"
	case MediaMarkdown:
		return "markdown"
	case MediaPDF:
		return "pdf"
	case MediaDocx:
		return "docx"
	default:
		return "unknown"
	}
}

// DetectMediaType classifies a source file by its extension. Unsupported
// extensions are rejected with a configuration error so a bad ingest request
// fails before any file is read.
func DetectMediaType(path string) (MediaType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return MediaText, nil
	case ".md", ".markdown":
		return MediaMarkdown, nil
	case ".pdf":
		return MediaPDF, nil
	case ".docx":
		return MediaDocx, nil
	default:
		return 0, fmt.Errorf("%w: unsupported file format %q", core.ErrConfiguration, ext)
	}
}
