package chromem

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage"
)

const testDimension = 4

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	store, err := New("", "test", testDimension, true)
	require.NoError(t, err)
	return store
}

func embeddedDoc(content string, embedding []float32) *core.Document {
	return &core.Document{
		Id:        core.IDFromContent(content),
		Content:   content,
		Embedding: embedding,
	}
}

func TestNewRejectsInvalidDimension(t *testing.T) {
	_, err := New("", "test", 0, true)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = New("", "test", -5, true)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestWriteAndCount(t *testing.T) {
	store := newMemoryStore(t)
	defer store.Close()

	ctx := context.Background()

	written, err := store.Write(ctx, []*core.Document{
		embeddedDoc("first", []float32{1, 0, 0, 0}),
		embeddedDoc("second", []float32{0, 1, 0, 0}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteRejectsDimensionMismatch(t *testing.T) {
	store := newMemoryStore(t)
	defer store.Close()

	_, err := store.Write(context.Background(), []*core.Document{
		embeddedDoc("wrong size", []float32{1, 2}),
	})
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestSearchByVector(t *testing.T) {
	store := newMemoryStore(t)
	defer store.Close()

	ctx := context.Background()

	_, err := store.Write(ctx, []*core.Document{
		embeddedDoc("aligned with x", []float32{1, 0, 0, 0}),
		embeddedDoc("aligned with y", []float32{0, 1, 0, 0}),
		embeddedDoc("between x and y", []float32{0.7, 0.7, 0, 0}),
	})
	require.NoError(t, err)

	results, err := store.SearchByVector(ctx, []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "aligned with x", results[0].Document.Content)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchRejectsDimensionMismatchBeforeSearch(t *testing.T) {
	store, err := New("", "test", 384, true)
	require.NoError(t, err)
	defer store.Close()

	// A 1024-dim query against a 384-dim index must fail with a
	// configuration error before any similarity search runs.
	query := make([]float32, 1024)
	query[0] = 1

	_, err = store.SearchByVector(context.Background(), query, 3)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestSearchTopKClampedToCount(t *testing.T) {
	store := newMemoryStore(t)
	defer store.Close()

	ctx := context.Background()

	var docs []*core.Document
	for i := 0; i < 3; i++ {
		docs = append(docs, embeddedDoc(
			fmt.Sprintf("doc %d", i),
			[]float32{float32(i + 1), 1, 0, 0},
		))
	}
	_, err := store.Write(ctx, docs)
	require.NoError(t, err)

	results, err := store.SearchByVector(ctx, []float32{1, 1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchEmptyStore(t *testing.T) {
	store := newMemoryStore(t)
	defer store.Close()

	results, err := store.SearchByVector(context.Background(), []float32{1, 0, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchInvalidTopK(t *testing.T) {
	store := newMemoryStore(t)
	defer store.Close()

	_, err := store.SearchByVector(context.Background(), []float32{1, 0, 0, 0}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
