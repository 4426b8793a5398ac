package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTextConverter(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "line one\nline two\n")

	doc, err := textConverter{}.Convert(path)
	require.NoError(t, err)

	assert.Equal(t, "line one\nline two\n", doc.Content)
	assert.Equal(t, path, doc.Metadata["source"])
	assert.NotZero(t, doc.Id)
}

func TestMarkdownConverterStripsFormatting(t *testing.T) {
	md := `# Heading

Some **bold** and *italic* text with [a link](https://example.com).

- first item
- second item

` + "```\ncode block\n```\n"

	path := writeTempFile(t, "doc.md", md)

	doc, err := markdownConverter{}.Convert(path)
	require.NoError(t, err)

	assert.Contains(t, doc.Content, "Heading")
	assert.Contains(t, doc.Content, "bold")
	assert.Contains(t, doc.Content, "a link")
	assert.Contains(t, doc.Content, "first item")
	assert.Contains(t, doc.Content, "code block")

	assert.NotContains(t, doc.Content, "#")
	assert.NotContains(t, doc.Content, "**")
	assert.NotContains(t, doc.Content, "https://example.com")
}

func TestConverterIDsAreStablePerSource(t *testing.T) {
	path := writeTempFile(t, "stable.txt", "identical content")

	first, err := textConverter{}.Convert(path)
	require.NoError(t, err)
	second, err := textConverter{}.Convert(path)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
}

func TestExtractDocxText(t *testing.T) {
	fragment := `<w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> world</w:t></w:r>`
	assert.Equal(t, "Hello world", extractDocxText(fragment))

	assert.Equal(t, "", extractDocxText("<w:pPr></w:pPr>"))
}

func TestConverterForUnknownMedia(t *testing.T) {
	_, err := converterFor(MediaType(99))
	assert.Error(t, err)
}
