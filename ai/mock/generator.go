package mock

import (
	"context"
	"strings"

	"github.com/poiesic/converse/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default deterministic behavior.
	CompleteFunc func(ctx context.Context, prompt string) ([]string, error)

	// ChatCompleteFunc is called by ChatComplete if set.
	// If nil, uses default deterministic behavior.
	ChatCompleteFunc func(ctx context.Context, messages []core.ChatMessage) ([]core.ChatMessage, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default deterministic
// behavior. Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Complete returns a single candidate. The default behavior echoes the last
// non-empty line of the prompt, which makes rephrase-style prompts (ending in
// "User Query: ..." blocks) produce a stable, input-derived result.
func (m *MockGenerator) Complete(ctx context.Context, prompt string) ([]string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return []string{line}, nil
		}
	}
	return []string{""}, nil
}

// ChatComplete returns a single assistant candidate. The default behavior
// acknowledges the last message deterministically.
func (m *MockGenerator) ChatComplete(ctx context.Context, messages []core.ChatMessage) ([]core.ChatMessage, error) {
	m.callCount++

	if m.ChatCompleteFunc != nil {
		return m.ChatCompleteFunc(ctx, messages)
	}

	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Text
	}
	return []core.ChatMessage{core.AssistantMessage("mock answer to: " + last)}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
	m.ChatCompleteFunc = nil
}
