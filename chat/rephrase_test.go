package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/converse/ai/mock"
	"github.com/poiesic/converse/core"
)

func TestRephraseEmptyHistoryLeavesQueryUnchanged(t *testing.T) {
	generator := mock.NewMockGenerator()
	rephraser := NewRephraser(generator)

	rewritten, err := rephraser.Rephrase(context.Background(), "what is a gopher?", nil)
	require.NoError(t, err)

	assert.Equal(t, "what is a gopher?", rewritten)
	assert.Zero(t, generator.CallCount(), "empty history must not reach the model")
}

func TestRephraseUsesHistory(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, prompt string) ([]string, error) {
		assert.Contains(t, prompt, "they live in tunnels")
		assert.Contains(t, prompt, "where exactly?")
		return []string{"where do gophers live"}, nil
	}
	rephraser := NewRephraser(generator)

	history := []core.ChatMessage{
		core.UserMessage("tell me about gophers"),
		core.AssistantMessage("they live in tunnels"),
	}
	rewritten, err := rephraser.Rephrase(context.Background(), "where exactly?", history)
	require.NoError(t, err)

	assert.Equal(t, "where do gophers live", rewritten)
	assert.Equal(t, 1, generator.CallCount())
}

func TestRephraseFallsBackOnModelError(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, prompt string) ([]string, error) {
		return nil, errors.New("model unavailable")
	}
	rephraser := NewRephraser(generator)

	history := []core.ChatMessage{core.UserMessage("hi")}
	rewritten, err := rephraser.Rephrase(context.Background(), "original query", history)
	require.NoError(t, err, "a flaky rephrase must not fail the turn")

	assert.Equal(t, "original query", rewritten)
}

func TestRephraseFallsBackOnEmptyOutput(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, prompt string) ([]string, error) {
		return []string{"   "}, nil
	}
	rephraser := NewRephraser(generator)

	history := []core.ChatMessage{core.UserMessage("hi")}
	rewritten, err := rephraser.Rephrase(context.Background(), "original query", history)
	require.NoError(t, err)

	assert.Equal(t, "original query", rewritten)
}

func TestRephraseRejectsEmptyQuery(t *testing.T) {
	rephraser := NewRephraser(mock.NewMockGenerator())

	_, err := rephraser.Rephrase(context.Background(), "", nil)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestRephraseIsDeterministicUnderStableModel(t *testing.T) {
	generator := mock.NewMockGenerator()
	rephraser := NewRephraser(generator)

	history := []core.ChatMessage{core.UserMessage("context")}

	first, err := rephraser.Rephrase(context.Background(), "same query", history)
	require.NoError(t, err)
	second, err := rephraser.Rephrase(context.Background(), "same query", history)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
