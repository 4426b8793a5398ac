package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/converse/ai"
	"github.com/poiesic/converse/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat-completion
// APIs. Both Complete and ChatComplete issue a single synchronous call; a
// provider-side failure fails the pipeline run that issued it, no internal
// retry.
type Generator struct {
	llm     *openai.LLM
	timeout time.Duration
	logger  *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating completion client: %w", core.ErrConfiguration, err)
	}

	return &Generator{
		llm:     llm,
		timeout: config.CallTimeout,
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Complete sends a single text prompt and returns the candidate completions.
func (g *Generator) Complete(ctx context.Context, prompt string) ([]string, error) {
	g.logger.Debug("requesting completion", "promptLength", len(prompt))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := g.llm.GenerateContent(ctx, messages)
	if err != nil {
		g.logger.Error("completion call failed", "err", err)
		return nil, fmt.Errorf("%w: completion: %w", core.ErrExternalService, err)
	}

	candidates := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		candidates = append(candidates, choice.Content)
	}
	return candidates, nil
}

// ChatComplete sends an ordered message sequence and returns the candidate
// reply messages.
func (g *Generator) ChatComplete(ctx context.Context, messages []core.ChatMessage) ([]core.ChatMessage, error) {
	g.logger.Debug("requesting chat completion", "messages", len(messages))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content := make([]llms.MessageContent, 0, len(messages))
	for _, message := range messages {
		role, err := chatMessageType(message.Role)
		if err != nil {
			return nil, err
		}
		content = append(content, llms.TextParts(role, message.Text))
	}

	resp, err := g.llm.GenerateContent(ctx, content)
	if err != nil {
		g.logger.Error("chat completion call failed", "err", err)
		return nil, fmt.Errorf("%w: chat completion: %w", core.ErrExternalService, err)
	}

	candidates := make([]core.ChatMessage, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		candidates = append(candidates, core.AssistantMessage(choice.Content))
	}
	return candidates, nil
}

// chatMessageType maps a core role to the langchaingo message type.
func chatMessageType(role core.Role) (llms.ChatMessageType, error) {
	switch role {
	case core.RoleSystem:
		return llms.ChatMessageTypeSystem, nil
	case core.RoleUser:
		return llms.ChatMessageTypeHuman, nil
	case core.RoleAssistant:
		return llms.ChatMessageTypeAI, nil
	default:
		return "", fmt.Errorf("%w: %w: value %d", core.ErrValidation, core.ErrInvalidRole, role)
	}
}
