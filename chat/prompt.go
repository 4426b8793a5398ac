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
	"fmt"
	"strings"

	"github.com/poiesic/converse/core"
)

// SystemGuidance is the assistant's standing instruction, sent as the
// system message of every generation call.
const SystemGuidance = `You are an intelligent and cheerful AI assistant specialized in assisting humans with queries based on provided supporting documents and conversation history.
Always prioritize accurate and concise answers derived from the documents, and offer contextually relevant follow-up questions to maintain an engaging and helpful conversation.
If the answer is not present in the documents, politely inform the user while suggesting alternative ways to help`

// AnswerUnavailable is the reply the model is instructed to give when the
// supporting documents cannot answer the question.
const AnswerUnavailable = "The answer is not available in the provided documents."

const userMessageHeader = `Based on the conversation history and the provided supporting documents, provide a brief and accurate answer to the question.
Make the conversation feel more natural and engaging

- Format your response for clarity and readability, using bullet points, paragraphs, or lists where necessary.
- Note: Supporting documents are not part of the conversation history.
- If the question cannot be answered using the supporting documents, respond with: "` + AnswerUnavailable + `"`

// BuildPrompt assembles the messages for an answer generation call. It is a
// pure function of its arguments: the system guidance, then one user message
// holding the conversation history, the retrieved documents in rank order,
// and the question last.
//
// The query must be non-empty and documents must be non-nil; an empty
// retrieval is represented by an empty slice and renders an explicit
// "no supporting documents" marker so the model does not invent sources.
func BuildPrompt(query string, documents []*core.RetrievedDocument, history []core.ChatMessage) ([]core.ChatMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}
	if documents == nil {
		return nil, fmt.Errorf("%w: documents not provided", core.ErrValidation)
	}

	var b strings.Builder
	b.WriteString(userMessageHeader)
	b.WriteString("\n\nConversation History:\n")
	for _, msg := range history {
		b.WriteString(msg.Role.String())
		b.WriteString(": ")
		b.WriteString(msg.Text)
		b.WriteByte('\n')
	}

	b.WriteString("\nSupporting Documents:\n")
	if len(documents) == 0 {
		b.WriteString("(no supporting documents were found)\n")
	}
	for _, doc := range documents {
		b.WriteString(doc.Document.Content)
		b.WriteByte('\n')
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\nAnswer:\n")

	return []core.ChatMessage{
		core.SystemMessage(SystemGuidance),
		core.UserMessage(b.String()),
	}, nil
}
