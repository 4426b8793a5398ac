package chat

import (
	"context"
	"fmt"

	"github.com/poiesic/converse/ai"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage"
)

// DefaultTopK is how many documents a retriever returns unless configured
// otherwise.
const DefaultTopK = 3

// Retriever finds the documents most relevant to a search query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]*core.RetrievedDocument, error)
}

// LexicalRetriever retrieves by keyword ranking.
type LexicalRetriever struct {
	searcher storage.LexicalSearcher
}

var _ Retriever = (*LexicalRetriever)(nil)

// NewLexicalRetriever creates a retriever over a lexical searcher.
func NewLexicalRetriever(searcher storage.LexicalSearcher) *LexicalRetriever {
	return &LexicalRetriever{searcher: searcher}
}

func (r *LexicalRetriever) Retrieve(ctx context.Context, query string, topK int) ([]*core.RetrievedDocument, error) {
	return r.searcher.Search(ctx, query, topK)
}

// VectorRetriever embeds the query and retrieves by vector similarity.
// The embedder's output dimension is checked against the index before the
// similarity search runs, so a model/index mismatch surfaces as a
// configuration error rather than nonsense results.
type VectorRetriever struct {
	embedder ai.Embedder
	searcher storage.VectorSearcher
}

var _ Retriever = (*VectorRetriever)(nil)

// NewVectorRetriever creates a retriever over an embedder and a vector
// searcher.
func NewVectorRetriever(embedder ai.Embedder, searcher storage.VectorSearcher) *VectorRetriever {
	return &VectorRetriever{embedder: embedder, searcher: searcher}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]*core.RetrievedDocument, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vector) != r.searcher.Dimension() {
		return nil, core.DimensionMismatch(len(vector), r.searcher.Dimension())
	}
	return r.searcher.SearchByVector(ctx, vector, topK)
}
