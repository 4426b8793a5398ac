package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/converse/ai/mock"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage/memstore"
)

func writeSources(t *testing.T, files map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		paths = append(paths, path)
	}
	return paths
}

func TestPipelineIngestsTextSources(t *testing.T) {
	store := memstore.New()
	defer store.Close()

	embedder := mock.NewMockEmbedder()
	p, err := NewPipeline(embedder, store, Splitter{Window: 10, Overlap: 5})
	require.NoError(t, err)

	words := make([]string, 20)
	for i := range words {
		words[i] = "word"
	}
	sources := writeSources(t, map[string]string{
		"a.txt": strings.Join(words, " "),
		"b.md":  "# Title\n\nshort body here",
	})

	written, err := p.Run(context.Background(), sources)
	require.NoError(t, err)

	// a.txt: 20 words at window 10 overlap 5 = 3 chunks; b.md = 1 chunk
	assert.Equal(t, 4, written)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestPipelineAttachesEmbeddings(t *testing.T) {
	store := &capturingStore{}
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 32

	p, err := NewPipeline(embedder, store, NewSplitter())
	require.NoError(t, err)

	sources := writeSources(t, map[string]string{"a.txt": "some short document"})
	_, err = p.Run(context.Background(), sources)
	require.NoError(t, err)

	require.NotEmpty(t, store.docs)
	for _, doc := range store.docs {
		assert.Len(t, doc.Embedding, embedder.Dimension)
	}
}

func TestPipelineWithoutEmbedder(t *testing.T) {
	store := &capturingStore{}

	p, err := NewPipeline(nil, store, NewSplitter())
	require.NoError(t, err)

	sources := writeSources(t, map[string]string{"a.txt": "lexical only content"})
	_, err = p.Run(context.Background(), sources)
	require.NoError(t, err)

	require.NotEmpty(t, store.docs)
	for _, doc := range store.docs {
		assert.Nil(t, doc.Embedding)
	}
}

func TestPipelineRejectsUnsupportedSource(t *testing.T) {
	store := &capturingStore{}

	p, err := NewPipeline(nil, store, NewSplitter())
	require.NoError(t, err)

	sources := writeSources(t, map[string]string{"a.txt": "fine"})
	sources = append(sources, "bad.csv")

	_, err = p.Run(context.Background(), sources)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Empty(t, store.docs, "nothing may be written when routing fails")
}

func TestPipelineRejectsEmptySources(t *testing.T) {
	p, err := NewPipeline(nil, &capturingStore{}, NewSplitter())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestPipelineIsIdempotent(t *testing.T) {
	store := memstore.New()
	defer store.Close()

	p, err := NewPipeline(nil, store, NewSplitter())
	require.NoError(t, err)

	sources := writeSources(t, map[string]string{"a.txt": "the same file both times"})

	_, err = p.Run(context.Background(), sources)
	require.NoError(t, err)
	first, err := store.Count(context.Background())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), sources)
	require.NoError(t, err)
	second, err := store.Count(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-ingesting the same sources must not grow the store")
}

func TestServiceRunsJobsInBackground(t *testing.T) {
	store := memstore.New()
	defer store.Close()

	p, err := NewPipeline(nil, store, NewSplitter())
	require.NoError(t, err)

	svc, err := NewService(p)
	require.NoError(t, err)
	defer svc.Release()

	sources := writeSources(t, map[string]string{"a.txt": "background ingestion content"})
	require.NoError(t, svc.Submit(sources))
	svc.Wait()

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// capturingStore records written documents for inspection.
type capturingStore struct {
	docs []*core.Document
}

func (s *capturingStore) Write(ctx context.Context, docs []*core.Document) (int, error) {
	s.docs = append(s.docs, docs...)
	return len(docs), nil
}

func (s *capturingStore) Count(ctx context.Context) (int, error) {
	return len(s.docs), nil
}

func (s *capturingStore) Close() error { return nil }
