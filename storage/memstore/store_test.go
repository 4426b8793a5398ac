package memstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage"
)

func newDoc(content string) *core.Document {
	return &core.Document{
		Id:      core.IDFromContent(content),
		Content: content,
	}
}

func TestWriteAndCount(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	written, err := store.Write(ctx, []*core.Document{
		newDoc("gophers dig tunnels"),
		newDoc("badgers dig burrows"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteIsIdempotent(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	docs := []*core.Document{newDoc("same content every time")}
	_, err := store.Write(ctx, docs)
	require.NoError(t, err)
	_, err = store.Write(ctx, docs)
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-writing the same document must not duplicate it")
}

func TestWriteRejectsEmptyContent(t *testing.T) {
	store := New()
	defer store.Close()

	_, err := store.Write(context.Background(), []*core.Document{
		{Id: 1, Content: ""},
	})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestSearchRanking(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	_, err := store.Write(ctx, []*core.Document{
		newDoc("gophers dig tunnels under gardens"),
		newDoc("gophers and gophers and more gophers everywhere"),
		newDoc("nothing about rodents here, only weather reports"),
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, "gophers", 10)
	require.NoError(t, err)
	require.Len(t, results, 2, "documents without query terms are excluded")

	// The term-dense document ranks first
	assert.Contains(t, results[0].Document.Content, "more gophers")
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchDescendingOrder(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	var docs []*core.Document
	for i := 1; i <= 8; i++ {
		content := "topic"
		for j := 0; j < i; j++ {
			content += " salmon"
		}
		docs = append(docs, newDoc(fmt.Sprintf("%s filler%d", content, i)))
	}
	_, err := store.Write(ctx, docs)
	require.NoError(t, err)

	results, err := store.Search(ctx, "salmon", len(docs))
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score,
			"results must be in descending score order")
	}
}

func TestSearchTopKLimit(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	var docs []*core.Document
	for i := 0; i < 10; i++ {
		docs = append(docs, newDoc(fmt.Sprintf("shared keyword document number %d", i)))
	}
	_, err := store.Write(ctx, docs)
	require.NoError(t, err)

	results, err := store.Search(ctx, "keyword", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	// topK larger than the corpus returns everything that matches
	results, err = store.Search(ctx, "keyword", 100)
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestSearchInvalidTopK(t *testing.T) {
	store := New()
	defer store.Close()

	_, err := store.Search(context.Background(), "anything", 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestSearchEmptyResults(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	// Empty corpus
	results, err := store.Search(ctx, "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = store.Write(ctx, []*core.Document{newDoc("completely unrelated text")})
	require.NoError(t, err)

	// No term overlap
	results, err = store.Search(ctx, "zebra", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Query made of stop words only
	results, err = store.Search(ctx, "the and of", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOperationsAfterClose(t *testing.T) {
	store := New()
	require.NoError(t, store.Close())

	ctx := context.Background()

	_, err := store.Write(ctx, []*core.Document{newDoc("late arrival")})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = store.Search(ctx, "anything", 3)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
