// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/poiesic/converse/core"
)

// Converter turns one source file into a plain-text document.
type Converter interface {
	Convert(path string) (*core.Document, error)
}

// converterFor returns the converter handling a media type.
func converterFor(media MediaType) (Converter, error) {
	switch media {
	case MediaText:
		return textConverter{}, nil
	case MediaMarkdown:
		return markdownConverter{}, nil
	case MediaPDF:
		return pdfConverter{}, nil
	case MediaDocx:
		return docxConverter{}, nil
	default:
		return nil, fmt.Errorf("%w: no converter for media type %s", core.ErrConfiguration, media)
	}
}

func newSourceDocument(path, content string) *core.Document {
	return &core.Document{
		Id:      core.IDFromContent(path + "\x00" + content),
		Content: content,
		Metadata: map[string]string{
			"source": path,
		},
	}
}

type textConverter struct{}

func (textConverter) Convert(path string) (*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newSourceDocument(path, string(data)), nil
}

// markdownConverter parses markdown and extracts the rendered text content,
// dropping formatting markers, link targets, and raw HTML.
type markdownConverter struct{}

func (markdownConverter) Convert(path string) (*core.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(source))

	var buf bytes.Buffer
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(source))
			}
		case *ast.AutoLink:
			buf.Write(node.URL(source))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown %s: %w", path, err)
	}

	return newSourceDocument(path, buf.String()), nil
}

type pdfConverter struct{}

func (pdfConverter) Convert(path string) (*core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d of %s: %w", i, path, err)
		}
		text.WriteString(pageText)
		text.WriteByte('\n')
	}

	return newSourceDocument(path, text.String()), nil
}

type docxConverter struct{}

func (docxConverter) Convert(path string) (*core.Document, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX %s: %w", path, err)
	}
	defer r.Close()

	content := r.Editable().GetContent()

	// GetContent returns the raw document XML. Keep text runs, drop markup.
	var text strings.Builder
	for _, paragraph := range strings.Split(content, "</w:p>") {
		line := extractDocxText(paragraph)
		if strings.TrimSpace(line) != "" {
			text.WriteString(line)
			text.WriteByte('\n')
		}
	}

	return newSourceDocument(path, text.String()), nil
}

// extractDocxText pulls the contents of <w:t> runs out of a paragraph's XML.
func extractDocxText(fragment string) string {
	var text strings.Builder
	rest := fragment
	for {
		start := strings.Index(rest, "<w:t")
		if start < 0 {
			break
		}
		openEnd := strings.Index(rest[start:], ">")
		if openEnd < 0 {
			break
		}
		rest = rest[start+openEnd+1:]
		end := strings.Index(rest, "</w:t>")
		if end < 0 {
			break
		}
		text.WriteString(rest[:end])
		rest = rest[end:]
	}
	return text.String()
}
