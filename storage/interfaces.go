package storage

import (
	"context"

	"github.com/poiesic/converse/core"
)

// DocumentStore persists document chunks. The store is read-mostly after
// ingestion: writes are rare and bulk, one ingestion job at a time.
// Implementations must be thread-safe and support concurrent access.
type DocumentStore interface {
	// Write persists the documents and returns the number written.
	// Writing a document whose ID already exists overwrites the previous
	// record, which makes re-ingestion of the same source idempotent.
	Write(ctx context.Context, documents []*core.Document) (int, error)

	// Count returns the number of documents in the store.
	Count(ctx context.Context) (int, error)

	// Close closes the store and releases resources.
	Close() error
}

// LexicalSearcher ranks documents against a raw text query using
// term-frequency statistics over the indexed corpus.
type LexicalSearcher interface {
	// Search returns up to topK documents ordered by descending relevance.
	Search(ctx context.Context, query string, topK int) ([]*core.RetrievedDocument, error)
}

// VectorSearcher ranks documents against a query embedding by cosine
// similarity. The query vector's dimension must equal Dimension(); a mismatch
// is a configuration error surfaced before any search is issued.
type VectorSearcher interface {
	// Dimension returns the vector dimension the store's index is
	// configured for.
	Dimension() int

	// SearchByVector returns up to topK documents ordered by descending
	// similarity to the query vector.
	SearchByVector(ctx context.Context, vector []float32, topK int) ([]*core.RetrievedDocument, error)
}

// HistoryStore persists the ordered conversation history. Insertion order is
// the sole ordering signal. Turns are appended atomically: a read started
// before AppendTurn completes never observes the in-flight turn; a read
// started after observes both of its messages.
type HistoryStore interface {
	// AppendTurn appends the turn's user and assistant messages, in that
	// order, as a single logical update.
	AppendTurn(ctx context.Context, turn core.Turn) error

	// Messages returns a snapshot of the full conversation history in
	// insertion order.
	Messages(ctx context.Context) ([]core.ChatMessage, error)

	// Reset deletes the whole history. Individual turns are never deleted.
	Reset(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}
