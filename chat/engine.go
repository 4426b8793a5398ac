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

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/converse/ai"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/pipeline"
	"github.com/poiesic/converse/storage"
)

// Port names of the conversational retrieval graph.
const (
	portQuery       = "query"
	portHistory     = "history"
	portSearchQuery = "search_query"
	portDocuments   = "documents"
	portMessages    = "messages"
	portReply       = "reply"
	portTurnSaved   = "turn_saved"
)

// Answer is the outcome of one conversational turn.
type Answer struct {
	// Text is the assistant's reply.
	Text string
	// SearchQuery is the rewritten query retrieval actually ran with.
	SearchQuery string
	// Documents are the retrieved supporting documents in rank order.
	Documents []*core.RetrievedDocument
}

// Engine answers questions over a document index while maintaining
// conversation history. One turn flows through an explicit pipeline:
// rephrase the question using history, retrieve supporting documents,
// assemble the prompt, generate, and persist the turn.
type Engine struct {
	graph   *pipeline.Graph
	history storage.HistoryStore
	topK    int
	logger  *slog.Logger

	// mu serializes turns so history reads and the turn append never
	// interleave across concurrent callers.
	mu sync.Mutex
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithTopK sets how many documents each turn retrieves.
// Default is DefaultTopK.
func WithTopK(topK int) EngineOption {
	return func(e *Engine) error {
		if topK <= 0 {
			return fmt.Errorf("%w: topK must be positive, got %d", core.ErrConfiguration, topK)
		}
		e.topK = topK
		return nil
	}
}

// NewEngine creates a conversational engine.
func NewEngine(generator ai.Generator, retriever Retriever, history storage.HistoryStore, opts ...EngineOption) (*Engine, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: generator is required", core.ErrConfiguration)
	}
	if retriever == nil {
		return nil, fmt.Errorf("%w: retriever is required", core.ErrConfiguration)
	}
	if history == nil {
		return nil, fmt.Errorf("%w: history store is required", core.ErrConfiguration)
	}

	e := &Engine{
		history: history,
		topK:    DefaultTopK,
		logger:  slog.Default().With("component", "chat"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	rephraser := NewRephraser(generator)

	graph, err := pipeline.NewGraph([]string{portQuery},
		e.loadHistoryStage(),
		e.rephraseStage(rephraser),
		e.retrieveStage(retriever),
		e.assembleStage(),
		e.generateStage(generator),
		e.persistStage(),
	)
	if err != nil {
		return nil, err
	}
	e.graph = graph

	return e, nil
}

// Ask answers one question. The turn is appended to history only after a
// reply was generated, and atomically, so a failed turn leaves the
// conversation exactly as it was.
func (e *Engine) Ask(ctx context.Context, query string) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.graph.Run(ctx, pipeline.State{portQuery: query})
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Text:        state[portReply].(string),
		SearchQuery: state[portSearchQuery].(string),
		Documents:   state[portDocuments].([]*core.RetrievedDocument),
	}
	e.logger.Debug("turn complete",
		"search_query", answer.SearchQuery,
		"documents", len(answer.Documents))
	return answer, nil
}

// History returns the conversation so far.
func (e *Engine) History(ctx context.Context) ([]core.ChatMessage, error) {
	return e.history.Messages(ctx)
}

// Reset clears the conversation history.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Reset(ctx)
}

// loadHistoryStage snapshots the conversation once per turn. Rephrasing and
// prompt assembly both read this snapshot, so they agree on what the history
// was even though the turn later appends to it.
func (e *Engine) loadHistoryStage() pipeline.Stage {
	return pipeline.NewStage("load-history",
		nil, []string{portHistory},
		func(ctx context.Context, state pipeline.State) error {
			messages, err := e.history.Messages(ctx)
			if err != nil {
				return err
			}
			if messages == nil {
				messages = []core.ChatMessage{}
			}
			state[portHistory] = messages
			return nil
		})
}

func (e *Engine) rephraseStage(rephraser *Rephraser) pipeline.Stage {
	return pipeline.NewStage("rephrase",
		[]string{portQuery, portHistory}, []string{portSearchQuery},
		func(ctx context.Context, state pipeline.State) error {
			query := state[portQuery].(string)
			history := state[portHistory].([]core.ChatMessage)

			rewritten, err := rephraser.Rephrase(ctx, query, history)
			if err != nil {
				return err
			}
			state[portSearchQuery] = rewritten
			return nil
		})
}

func (e *Engine) retrieveStage(retriever Retriever) pipeline.Stage {
	return pipeline.NewStage("retrieve",
		[]string{portSearchQuery}, []string{portDocuments},
		func(ctx context.Context, state pipeline.State) error {
			query := state[portSearchQuery].(string)

			docs, err := retriever.Retrieve(ctx, query, e.topK)
			if err != nil {
				return err
			}
			if docs == nil {
				docs = []*core.RetrievedDocument{}
			}
			if len(docs) == 0 {
				e.logger.Warn("retrieval produced an empty result", "err", core.ErrNoDocuments, "query", query)
			}
			state[portDocuments] = docs
			return nil
		})
}

func (e *Engine) assembleStage() pipeline.Stage {
	return pipeline.NewStage("assemble",
		[]string{portQuery, portHistory, portDocuments}, []string{portMessages},
		func(ctx context.Context, state pipeline.State) error {
			messages, err := BuildPrompt(
				state[portQuery].(string),
				state[portDocuments].([]*core.RetrievedDocument),
				state[portHistory].([]core.ChatMessage),
			)
			if err != nil {
				return err
			}
			state[portMessages] = messages
			return nil
		})
}

func (e *Engine) generateStage(generator ai.Generator) pipeline.Stage {
	return pipeline.NewStage("generate",
		[]string{portMessages}, []string{portReply},
		func(ctx context.Context, state pipeline.State) error {
			messages := state[portMessages].([]core.ChatMessage)

			replies, err := generator.ChatComplete(ctx, messages)
			if err != nil {
				return err
			}
			if len(replies) == 0 || strings.TrimSpace(replies[0].Text) == "" {
				return fmt.Errorf("%w: model returned no reply", core.ErrExternalService)
			}
			state[portReply] = strings.TrimSpace(replies[0].Text)
			return nil
		})
}

func (e *Engine) persistStage() pipeline.Stage {
	return pipeline.NewStage("persist",
		[]string{portQuery, portReply}, []string{portTurnSaved},
		func(ctx context.Context, state pipeline.State) error {
			turn := core.Turn{
				User:      core.UserMessage(state[portQuery].(string)),
				Assistant: core.AssistantMessage(state[portReply].(string)),
			}
			if err := e.history.AppendTurn(ctx, turn); err != nil {
				return err
			}
			state[portTurnSaved] = true
			return nil
		})
}
