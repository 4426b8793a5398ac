package ai

import (
	"context"

	"github.com/poiesic/converse/core"
)

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has the fixed dimension of the embedding model.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator invokes a hosted completion model.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Complete sends a single text prompt to the completion model and
	// returns the candidate completions. Callers use the first candidate.
	Complete(ctx context.Context, prompt string) ([]string, error)

	// ChatComplete sends an ordered message sequence to the chat-completion
	// model and returns the candidate reply messages. Callers use the first
	// candidate.
	ChatComplete(ctx context.Context, messages []core.ChatMessage) ([]core.ChatMessage, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the completion service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
