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

package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/converse/ai"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/pipeline"
	"github.com/poiesic/converse/storage"
)

// Port names of the ingestion graph.
const (
	portSources   = "sources"
	portRouted    = "routed"
	portDocuments = "documents"
	portCleaned   = "cleaned"
	portChunks    = "chunks"
	portEmbedded  = "embedded"
	portWritten   = "written"
)

var mediaTypes = []MediaType{MediaText, MediaMarkdown, MediaPDF, MediaDocx}

func convertedPort(media MediaType) string {
	return "converted:" + media.String()
}

// Pipeline ingests source files into a document store. The flow is a typed
// dataflow graph: route by media type, convert per type, merge, clean,
// split into overlapping chunks, optionally embed, and write.
type Pipeline struct {
	graph  *pipeline.Graph
	logger *slog.Logger
}

// NewPipeline assembles an ingestion pipeline. The embedder may be nil for
// stores that retrieve lexically; chunks are then written without
// embeddings.
func NewPipeline(embedder ai.Embedder, store storage.DocumentStore, splitter Splitter) (*Pipeline, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: document store is required", core.ErrConfiguration)
	}
	if err := splitter.Validate(); err != nil {
		return nil, err
	}

	stages := []pipeline.Stage{
		routeStage(),
		mergeStage(),
		cleanStage(),
		splitStage(splitter),
		embedStage(embedder),
		writeStage(store),
	}
	for _, media := range mediaTypes {
		stages = append(stages, convertStage(media))
	}

	graph, err := pipeline.NewGraph([]string{portSources}, stages...)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		graph:  graph,
		logger: slog.Default().With("component", "ingest"),
	}, nil
}

// Run ingests the given source files and returns the number of chunks
// written. All sources must be of supported media types; an unsupported
// source fails the whole run before any file is read.
func (p *Pipeline) Run(ctx context.Context, sources []string) (int, error) {
	if len(sources) == 0 {
		return 0, fmt.Errorf("%w: no sources given", core.ErrValidation)
	}

	state, err := p.graph.Run(ctx, pipeline.State{portSources: sources})
	if err != nil {
		return 0, err
	}

	written := state[portWritten].(int)
	p.logger.Info("ingestion complete", "sources", len(sources), "chunks", written)
	return written, nil
}

// routeStage classifies sources by media type. Unsupported types reject the
// whole batch here, before any conversion work starts.
func routeStage() pipeline.Stage {
	return pipeline.NewStage("route",
		[]string{portSources}, []string{portRouted},
		func(ctx context.Context, state pipeline.State) error {
			sources := state[portSources].([]string)
			routed := make(map[MediaType][]string)
			for _, src := range sources {
				media, err := DetectMediaType(src)
				if err != nil {
					return err
				}
				routed[media] = append(routed[media], src)
			}
			state[portRouted] = routed
			return nil
		})
}

// convertStage converts all sources of one media type.
func convertStage(media MediaType) pipeline.Stage {
	return pipeline.NewStage("convert-"+media.String(),
		[]string{portRouted}, []string{convertedPort(media)},
		func(ctx context.Context, state pipeline.State) error {
			routed := state[portRouted].(map[MediaType][]string)

			converter, err := converterFor(media)
			if err != nil {
				return err
			}

			docs := make([]*core.Document, 0, len(routed[media]))
			for _, src := range routed[media] {
				doc, err := converter.Convert(src)
				if err != nil {
					return fmt.Errorf("converting %s: %w", src, err)
				}
				docs = append(docs, doc)
			}
			state[convertedPort(media)] = docs
			return nil
		})
}

// mergeStage fans the per-media converter outputs back into one list.
func mergeStage() pipeline.Stage {
	inputs := make([]string, 0, len(mediaTypes))
	for _, media := range mediaTypes {
		inputs = append(inputs, convertedPort(media))
	}
	return pipeline.NewStage("merge",
		inputs, []string{portDocuments},
		func(ctx context.Context, state pipeline.State) error {
			var docs []*core.Document
			for _, port := range inputs {
				docs = append(docs, state[port].([]*core.Document)...)
			}
			state[portDocuments] = docs
			return nil
		})
}

func cleanStage() pipeline.Stage {
	return pipeline.NewStage("clean",
		[]string{portDocuments}, []string{portCleaned},
		func(ctx context.Context, state pipeline.State) error {
			docs := state[portDocuments].([]*core.Document)
			cleaned := make([]*core.Document, 0, len(docs))
			for _, doc := range docs {
				text := Clean(doc.Content)
				if text == "" {
					return fmt.Errorf("%w: %s is empty after cleaning",
						core.ErrEmptyContent, doc.Metadata["source"])
				}
				cleaned = append(cleaned, &core.Document{
					Id:       doc.Id,
					Content:  text,
					Metadata: doc.Metadata,
				})
			}
			state[portCleaned] = cleaned
			return nil
		})
}

func splitStage(splitter Splitter) pipeline.Stage {
	return pipeline.NewStage("split",
		[]string{portCleaned}, []string{portChunks},
		func(ctx context.Context, state pipeline.State) error {
			docs := state[portCleaned].([]*core.Document)
			var chunks []*core.Document
			for _, doc := range docs {
				split, err := splitter.Split(doc)
				if err != nil {
					return err
				}
				chunks = append(chunks, split...)
			}
			state[portChunks] = chunks
			return nil
		})
}

// embedStage attaches embeddings to every chunk. With a nil embedder the
// chunks pass through unchanged for lexical-only stores.
func embedStage(embedder ai.Embedder) pipeline.Stage {
	return pipeline.NewStage("embed",
		[]string{portChunks}, []string{portEmbedded},
		func(ctx context.Context, state pipeline.State) error {
			chunks := state[portChunks].([]*core.Document)
			if embedder == nil || len(chunks) == 0 {
				state[portEmbedded] = chunks
				return nil
			}

			texts := make([]string, len(chunks))
			for i, chunk := range chunks {
				texts[i] = chunk.Content
			}
			vectors, err := embedder.EmbedTexts(ctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(chunks) {
				return fmt.Errorf("%w: got %d embeddings for %d chunks",
					core.ErrExternalService, len(vectors), len(chunks))
			}
			for i, chunk := range chunks {
				chunk.Embedding = vectors[i]
			}
			state[portEmbedded] = chunks
			return nil
		})
}

func writeStage(store storage.DocumentStore) pipeline.Stage {
	return pipeline.NewStage("write",
		[]string{portEmbedded}, []string{portWritten},
		func(ctx context.Context, state pipeline.State) error {
			chunks := state[portEmbedded].([]*core.Document)
			written, err := store.Write(ctx, chunks)
			if err != nil {
				return err
			}
			state[portWritten] = written
			return nil
		})
}
