package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/converse/ai/mock"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage/chromem"
	"github.com/poiesic/converse/storage/memstore"
)

func TestLexicalRetriever(t *testing.T) {
	store := memstore.New()
	defer store.Close()

	ctx := context.Background()

	docs := []*core.Document{
		{Id: core.IDFromContent("a"), Content: "gophers dig tunnels"},
		{Id: core.IDFromContent("b"), Content: "badgers dig burrows"},
		{Id: core.IDFromContent("c"), Content: "weather report for tuesday"},
	}
	_, err := store.Write(ctx, docs)
	require.NoError(t, err)

	retriever := NewLexicalRetriever(store)
	results, err := retriever.Retrieve(ctx, "gophers tunnels", 2)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "gophers dig tunnels", results[0].Document.Content)
}

func TestVectorRetriever(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 32
	store, err := chromem.New("", "test", embedder.Dimension, true)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	contents := []string{"first document", "second document"}
	var docs []*core.Document
	for _, content := range contents {
		vec, embedErr := embedder.EmbedText(ctx, content)
		require.NoError(t, embedErr)
		docs = append(docs, &core.Document{
			Id:        core.IDFromContent(content),
			Content:   content,
			Embedding: vec,
		})
	}
	_, err = store.Write(ctx, docs)
	require.NoError(t, err)

	retriever := NewVectorRetriever(embedder, store)
	results, err := retriever.Retrieve(ctx, "first document", 1)
	require.NoError(t, err)

	// Identical text embeds identically under the deterministic mock
	require.Len(t, results, 1)
	assert.Equal(t, "first document", results[0].Document.Content)
}

func TestVectorRetrieverDimensionMismatch(t *testing.T) {
	// 384-dim embedder against a 1024-dim index
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 384

	store, err := chromem.New("", "test", 1024, true)
	require.NoError(t, err)
	defer store.Close()

	retriever := NewVectorRetriever(embedder, store)
	_, err = retriever.Retrieve(context.Background(), "any question", 3)

	assert.ErrorIs(t, err, core.ErrConfiguration)
}
