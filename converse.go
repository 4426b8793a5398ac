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

package converse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/converse/ai"
	"github.com/poiesic/converse/ai/openai"
	"github.com/poiesic/converse/chat"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/ingest"
	"github.com/poiesic/converse/storage"
	"github.com/poiesic/converse/storage/badger"
	"github.com/poiesic/converse/storage/chromem"
	"github.com/poiesic/converse/storage/memstore"
)

// modelDimensions maps known embedding models to their vector dimensions.
var modelDimensions = map[string]int{
	"all-MiniLM-L12-v2":              384,
	"multilingual-e5-large-instruct": 1024,
}

// ModelDimension returns the embedding dimension of a known model.
func ModelDimension(model string) (int, error) {
	dim, ok := modelDimensions[model]
	if !ok {
		return 0, fmt.Errorf("%w: unknown embedding model %q", core.ErrConfiguration, model)
	}
	return dim, nil
}

// Assistant bundles the stores and the model provider behind one handle.
// Conversation history and index metadata live in a BadgerDB database under
// the data directory; each vector index is a chromem collection beside it.
type Assistant struct {
	dataDir  string
	inMemory bool
	backend  *badger.Backend
	registry *badger.IndexRegistry
	provider ai.Provider
	logger   *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig sets the model provider configuration.
func WithAIConfig(cfg *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = cfg
	}
}

// WithInMemory keeps all state in memory. Nothing is written to the data
// directory; intended for tests.
func WithInMemory() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// NewAssistant opens an assistant rooted at the given data directory.
func NewAssistant(dataDir string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, "state"), options.inMemory)
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Assistant{
		dataDir:  dataDir,
		inMemory: options.inMemory,
		backend:  backend,
		registry: badger.NewIndexRegistry(backend),
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider and the backing database.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Provider returns the model provider.
func (a *Assistant) Provider() ai.Provider {
	return a.provider
}

// Registry returns the index metadata registry.
func (a *Assistant) Registry() *badger.IndexRegistry {
	return a.registry
}

// CreateIndex registers a vector index for the given embedding model and
// opens its store. Reopening an existing index with a different model is a
// configuration error.
func (a *Assistant) CreateIndex(ctx context.Context, name, model string) (*chromem.Store, error) {
	dimension, err := ModelDimension(model)
	if err != nil {
		return nil, err
	}

	existing, err := a.registry.Get(ctx, name)
	switch {
	case err == nil:
		if existing.Model != model {
			return nil, fmt.Errorf("%w: index %q was created with model %q",
				core.ErrConfiguration, name, existing.Model)
		}
	case errors.Is(err, storage.ErrNotFound):
		info := core.IndexInfo{Name: name, Model: model, Dimension: dimension}
		if err := a.registry.Put(ctx, info); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return a.openStore(name, dimension)
}

// OpenIndex opens the store of a registered index.
func (a *Assistant) OpenIndex(ctx context.Context, name string) (*chromem.Store, core.IndexInfo, error) {
	info, err := a.registry.Get(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, core.IndexInfo{}, fmt.Errorf("%w: index %q is not registered",
				core.ErrConfiguration, name)
		}
		return nil, core.IndexInfo{}, err
	}

	store, err := a.openStore(name, info.Dimension)
	if err != nil {
		return nil, core.IndexInfo{}, err
	}
	return store, info, nil
}

func (a *Assistant) openStore(name string, dimension int) (*chromem.Store, error) {
	return chromem.New(filepath.Join(a.dataDir, "indexes"), name, dimension, a.inMemory)
}

// IndexSummary is one row of the index listing.
type IndexSummary struct {
	core.IndexInfo
	Chunks int
}

// Indexes lists all registered indexes with their chunk counts.
func (a *Assistant) Indexes(ctx context.Context) ([]IndexSummary, error) {
	infos, err := a.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]IndexSummary, 0, len(infos))
	for _, info := range infos {
		store, err := a.openStore(info.Name, info.Dimension)
		if err != nil {
			return nil, err
		}
		count, err := store.Count(ctx)
		store.Close()
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, IndexSummary{IndexInfo: info, Chunks: count})
	}
	return summaries, nil
}

// NewIngestionPipeline builds an ingestion pipeline writing embedded chunks
// into the given store.
func (a *Assistant) NewIngestionPipeline(store storage.DocumentStore) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(a.provider.Embedder(), store, ingest.NewSplitter())
}

// NewChatEngine builds a conversational engine over a registered vector
// index. Turns are recorded under the named conversation.
func (a *Assistant) NewChatEngine(ctx context.Context, conversation, index string, opts ...chat.EngineOption) (*chat.Engine, error) {
	store, _, err := a.OpenIndex(ctx, index)
	if err != nil {
		return nil, err
	}

	retriever := chat.NewVectorRetriever(a.provider.Embedder(), store)
	return a.newEngine(conversation, retriever, opts...)
}

// NewLexicalChatEngine builds a conversational engine over a session-scoped
// lexical store. The store lives only as long as the process; sources are
// ingested into it at session start.
func (a *Assistant) NewLexicalChatEngine(ctx context.Context, conversation string, sources []string, opts ...chat.EngineOption) (*chat.Engine, error) {
	store := memstore.New()

	if len(sources) > 0 {
		p, err := ingest.NewPipeline(nil, store, ingest.NewSplitter())
		if err != nil {
			return nil, err
		}
		if _, err := p.Run(ctx, sources); err != nil {
			return nil, err
		}
	}

	return a.newEngine(conversation, chat.NewLexicalRetriever(store), opts...)
}

func (a *Assistant) newEngine(conversation string, retriever chat.Retriever, opts ...chat.EngineOption) (*chat.Engine, error) {
	history, err := badger.NewHistoryStore(a.backend, conversation)
	if err != nil {
		return nil, err
	}
	return chat.NewEngine(a.provider.Generator(), retriever, history, opts...)
}

// ResetHistory clears the named conversation.
func (a *Assistant) ResetHistory(ctx context.Context, conversation string) error {
	history, err := badger.NewHistoryStore(a.backend, conversation)
	if err != nil {
		return err
	}
	defer history.Close()
	return history.Reset(ctx)
}
