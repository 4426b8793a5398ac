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
	"fmt"
	"strings"

	"github.com/poiesic/converse/core"
)

const (
	// DefaultSplitWindow is the chunk length in words.
	DefaultSplitWindow = 100
	// DefaultSplitOverlap is how many words consecutive chunks share.
	DefaultSplitOverlap = 50
)

// Splitter cuts a document into overlapping word-window chunks. A chunk
// starts every Window-Overlap words, so the tail of each chunk repeats as
// the head of the next.
type Splitter struct {
	Window  int
	Overlap int
}

// NewSplitter creates a splitter with the default window and overlap.
func NewSplitter() Splitter {
	return Splitter{Window: DefaultSplitWindow, Overlap: DefaultSplitOverlap}
}

// Validate checks the splitter parameters.
func (s Splitter) Validate() error {
	if s.Window <= 0 {
		return fmt.Errorf("%w: split window must be positive, got %d", core.ErrConfiguration, s.Window)
	}
	if s.Overlap < 0 || s.Overlap >= s.Window {
		return fmt.Errorf("%w: split overlap must be in [0, window), got %d", core.ErrConfiguration, s.Overlap)
	}
	return nil
}

// Split cuts a document into chunks. Each chunk carries the source
// document's metadata plus its chunk index, and its ID is derived from the
// source, index, and content, so re-splitting the same document yields the
// same IDs. A document shorter than the window yields a single chunk; the
// final partial window is kept.
func (s Splitter) Split(doc *core.Document) ([]*core.Document, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	words := strings.Fields(doc.Content)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: document %d has no words", core.ErrEmptyContent, doc.Id)
	}

	source := doc.Metadata["source"]
	step := s.Window - s.Overlap

	var chunks []*core.Document
	for start := 0; ; start += step {
		end := min(start+s.Window, len(words))
		content := strings.Join(words[start:end], " ")
		index := len(chunks)

		metadata := make(map[string]string, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata["chunk"] = fmt.Sprintf("%d", index)

		chunks = append(chunks, &core.Document{
			Id:       core.IDFromContent(fmt.Sprintf("%s\x00%d\x00%s", source, index, content)),
			Content:  content,
			Metadata: metadata,
		})

		if end == len(words) {
			break
		}
	}
	return chunks, nil
}
