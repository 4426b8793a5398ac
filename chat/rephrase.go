package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/converse/ai"
	"github.com/poiesic/converse/core"
)

const rephraseHeader = `Rewrite the question for search while keeping its meaning and key terms intact.
If the conversation history is empty, DO NOT change the query.
Use conversation history only if necessary, and avoid extending the query with your own knowledge.
If no changes are needed, output the current question as is.`

// Rephraser rewrites a follow-up question into a standalone search query
// using the conversation so far.
type Rephraser struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewRephraser creates a Rephraser over a text generator.
func NewRephraser(generator ai.Generator) *Rephraser {
	return &Rephraser{
		generator: generator,
		logger:    slog.Default().With("component", "rephraser"),
	}
}

// Rephrase returns the search form of the query. With empty history the
// query is returned unchanged without calling the model. Model failures and
// empty outputs fall back to the original query, so a flaky rephrase never
// blocks retrieval.
func (r *Rephraser) Rephrase(ctx context.Context, query string, history []core.ChatMessage) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", core.ErrEmptyQuery
	}
	if len(history) == 0 {
		return query, nil
	}

	var b strings.Builder
	b.WriteString(rephraseHeader)
	b.WriteString("\n\nConversation history:\n")
	for _, msg := range history {
		b.WriteString(msg.Text)
		b.WriteByte('\n')
	}
	b.WriteString("\nUser Query: ")
	b.WriteString(query)
	b.WriteString("\nRewritten Query:")

	replies, err := r.generator.Complete(ctx, b.String())
	if err != nil {
		r.logger.Warn("rephrase failed, using original query", "err", err)
		return query, nil
	}
	if len(replies) == 0 {
		r.logger.Warn("rephrase returned no output, using original query")
		return query, nil
	}

	rewritten := strings.TrimSpace(replies[0])
	if rewritten == "" {
		return query, nil
	}
	return rewritten, nil
}
