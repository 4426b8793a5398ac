package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs are derived from content hashing so that re-ingesting the same
// source produces the same IDs and overwrites instead of duplicating.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a chat message.
type Role int

const (
	// RoleSystem represents fixed assistant guidance.
	RoleSystem Role = iota + 1
	// RoleUser represents the human user.
	RoleUser
	// RoleAssistant represents the AI assistant.
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// ChatMessage is a single message in a conversation. Messages are immutable
// once created; their ordered sequence forms the conversation history, and
// insertion order is the sole ordering signal consumed by prompt rendering.
type ChatMessage struct {
	Role Role
	Text string
}

// SystemMessage builds a system-role message.
func SystemMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Text: text}
}

// UserMessage builds a user-role message.
func UserMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleUser, Text: text}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Text: text}
}

// Turn pairs a user question with its assistant answer. A turn is the atomic
// unit of history update: both messages are appended together, user first,
// and become visible only once the turn fully completes.
type Turn struct {
	User      ChatMessage
	Assistant ChatMessage
}

// Document is a chunk of ingested source text, the unit of embedding and
// retrieval. Documents are immutable once written. Embedding is present only
// for vector-indexed stores.
type Document struct {
	Id        ID
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// RetrievedDocument is a document returned by a retrieval call together with
// its relevance score. Scores are recomputed per query and never persisted.
type RetrievedDocument struct {
	Document *Document
	Score    float32
}

// IndexInfo describes a named document index: the embedding model it was
// built with and the vector dimension its store is configured for.
type IndexInfo struct {
	Name      string
	Model     string
	Dimension int
}
