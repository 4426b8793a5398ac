package converse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/converse/core"
)

func TestModelDimension(t *testing.T) {
	dim, err := ModelDimension("all-MiniLM-L12-v2")
	require.NoError(t, err)
	assert.Equal(t, 384, dim)

	dim, err = ModelDimension("multilingual-e5-large-instruct")
	require.NoError(t, err)
	assert.Equal(t, 1024, dim)

	_, err = ModelDimension("unknown-model")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestAssistantIndexLifecycle(t *testing.T) {
	assistant, err := NewAssistant(t.TempDir(), WithInMemory())
	require.NoError(t, err)
	defer assistant.Close()

	ctx := context.Background()

	store, err := assistant.CreateIndex(ctx, "docs", "all-MiniLM-L12-v2")
	require.NoError(t, err)
	store.Close()

	// Reopening with the same model is fine
	store, err = assistant.CreateIndex(ctx, "docs", "all-MiniLM-L12-v2")
	require.NoError(t, err)
	store.Close()

	// Reopening with a different model is not
	_, err = assistant.CreateIndex(ctx, "docs", "multilingual-e5-large-instruct")
	assert.ErrorIs(t, err, core.ErrConfiguration)

	summaries, err := assistant.Indexes(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "docs", summaries[0].Name)
	assert.Equal(t, 384, summaries[0].Dimension)
}

func TestAssistantOpenUnknownIndex(t *testing.T) {
	assistant, err := NewAssistant(t.TempDir(), WithInMemory())
	require.NoError(t, err)
	defer assistant.Close()

	_, _, err = assistant.OpenIndex(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
