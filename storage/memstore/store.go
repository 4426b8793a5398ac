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

package memstore

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage"
)

// BM25 parameters.
const (
	k1 = 1.5
	b  = 0.75
)

// Store is an in-memory document store with BM25 lexical search.
type Store struct {
	mu sync.RWMutex

	docs    []*core.Document
	tokens  [][]string
	byID    map[core.ID]int
	lengths []int
	// df maps a term to the number of documents containing it
	df        map[string]int
	totalLen  int
	closed    bool
	closeOnce sync.Once
}

var (
	_ storage.DocumentStore   = (*Store)(nil)
	_ storage.LexicalSearcher = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byID: make(map[core.ID]int),
		df:   make(map[string]int),
	}
}

// Write stores the given documents and returns the number written.
// Writing a document whose ID is already present replaces the stored copy,
// so re-ingesting the same source is idempotent.
func (s *Store) Write(ctx context.Context, docs []*core.Document) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, storage.ErrStorageClosed
	}

	written := 0
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return written, err
		}

		terms := tokenize(doc.Content)
		if idx, ok := s.byID[doc.Id]; ok {
			s.removeTermStats(idx)
			s.docs[idx] = doc
			s.tokens[idx] = terms
			s.lengths[idx] = len(terms)
			s.addTermStats(idx)
		} else {
			s.byID[doc.Id] = len(s.docs)
			s.docs = append(s.docs, doc)
			s.tokens = append(s.tokens, terms)
			s.lengths = append(s.lengths, len(terms))
			s.addTermStats(len(s.docs) - 1)
		}
		written++
	}
	return written, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, storage.ErrStorageClosed
	}
	return len(s.docs), nil
}

// Search ranks stored documents against the query with BM25 and returns up
// to topK results in descending score order. Documents that share no terms
// with the query are excluded.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]*core.RetrievedDocument, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", storage.ErrInvalidQuery, topK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || len(s.docs) == 0 {
		return []*core.RetrievedDocument{}, nil
	}

	n := float64(len(s.docs))
	avgLen := float64(s.totalLen) / n

	var results []*core.RetrievedDocument
	for i, doc := range s.docs {
		score := s.scoreDocument(i, queryTerms, n, avgLen)
		if score <= 0 {
			continue
		}
		results = append(results, &core.RetrievedDocument{
			Document: doc,
			Score:    float32(score),
		})
	}

	slices.SortStableFunc(results, func(a, b *core.RetrievedDocument) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []*core.RetrievedDocument{}
	}
	return results, nil
}

// Close marks the store closed. Subsequent operations fail with
// storage.ErrStorageClosed.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	})
	return nil
}

func (s *Store) scoreDocument(idx int, queryTerms []string, n, avgLen float64) float64 {
	// Term frequencies for this document
	tf := make(map[string]int, len(s.tokens[idx]))
	for _, term := range s.tokens[idx] {
		tf[term]++
	}

	docLen := float64(s.lengths[idx])
	var score float64
	for _, term := range queryTerms {
		freq := float64(tf[term])
		if freq == 0 {
			continue
		}
		df := float64(s.df[term])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * (freq * (k1 + 1)) / (freq + k1*(1-b+b*docLen/avgLen))
	}
	return score
}

func (s *Store) addTermStats(idx int) {
	seen := make(map[string]bool)
	for _, term := range s.tokens[idx] {
		if !seen[term] {
			seen[term] = true
			s.df[term]++
		}
	}
	s.totalLen += s.lengths[idx]
}

func (s *Store) removeTermStats(idx int) {
	seen := make(map[string]bool)
	for _, term := range s.tokens[idx] {
		if !seen[term] {
			seen[term] = true
			s.df[term]--
			if s.df[term] == 0 {
				delete(s.df, term)
			}
		}
	}
	s.totalLen -= s.lengths[idx]
}
