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

package chromem

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage"
)

const collectionCompression = false

// Store is a chromem-go backed document store with vector similarity search.
// Every document written to a store must carry an embedding of the store's
// declared dimension.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	dimension  int
}

var (
	_ storage.DocumentStore  = (*Store)(nil)
	_ storage.VectorSearcher = (*Store)(nil)
)

// New opens or creates the named collection with the given embedding
// dimension. If inMemory is true the collection is not persisted and dbPath
// is ignored.
func New(dbPath, collection string, dimension int, inMemory bool) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive, got %d",
			core.ErrConfiguration, dimension)
	}

	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, collectionCompression)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector database: %w", err)
		}
	}

	c, err := db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", collection, err)
	}

	return &Store{
		db:         db,
		collection: c,
		dimension:  dimension,
	}, nil
}

// Dimension returns the embedding dimension this store accepts.
func (s *Store) Dimension() int {
	return s.dimension
}

// Write stores the given documents and returns the number written.
// Each document must carry an embedding of the store's dimension.
func (s *Store) Write(ctx context.Context, docs []*core.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	chromemDocs := make([]chromem.Document, 0, len(docs))
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return 0, err
		}
		if len(doc.Embedding) != s.dimension {
			return 0, core.DimensionMismatch(len(doc.Embedding), s.dimension)
		}
		chromemDocs = append(chromemDocs, chromem.Document{
			ID:        strconv.FormatUint(uint64(doc.Id), 10),
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
		})
	}

	if err := s.collection.AddDocuments(ctx, chromemDocs, runtime.NumCPU()); err != nil {
		return 0, fmt.Errorf("failed to add documents: %w", err)
	}
	return len(chromemDocs), nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

// SearchByVector returns up to topK documents most similar to the query
// vector, in descending similarity order. The vector's dimension is checked
// against the store's dimension before any search runs.
func (s *Store) SearchByVector(ctx context.Context, vector []float32, topK int) ([]*core.RetrievedDocument, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", storage.ErrInvalidQuery, topK)
	}
	if len(vector) != s.dimension {
		return nil, core.DimensionMismatch(len(vector), s.dimension)
	}

	// Chromem rejects queries asking for more results than stored documents
	count := s.collection.Count()
	if count == 0 {
		return []*core.RetrievedDocument{}, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	retrieved := make([]*core.RetrievedDocument, 0, len(results))
	for _, res := range results {
		id, err := strconv.ParseUint(res.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed document ID %q", storage.ErrSerializationFailed, res.ID)
		}
		retrieved = append(retrieved, &core.RetrievedDocument{
			Document: &core.Document{
				Id:        core.ID(id),
				Content:   res.Content,
				Metadata:  res.Metadata,
				Embedding: res.Embedding,
			},
			Score: res.Similarity,
		})
	}
	return retrieved, nil
}

// Close releases the store. Chromem persists writes eagerly, so there is
// nothing to flush.
func (s *Store) Close() error {
	return nil
}
