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


package core

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure in the system belongs to exactly one of the
// four classes below; finer-grained errors wrap one of them so that callers
// can discriminate with errors.Is.
var (
	// ErrConfiguration indicates an invalid or inconsistent configuration,
	// such as missing credentials or an embedding-dimension mismatch.
	// Fatal, surfaced immediately, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrExternalService indicates a failed call to a hosted service
	// (embedding, completion, vector search). Fails the pipeline run that
	// issued the call; never corrupts stored state.
	ErrExternalService = errors.New("external service failure")

	// ErrNoDocuments indicates that retrieval returned zero documents.
	// Not fatal: the prompt states explicitly that no supporting documents
	// were found instead of silently answering without context.
	ErrNoDocuments = errors.New("no supporting documents found")

	// ErrValidation indicates that a required value is missing or malformed.
	// Fatal to the pipeline run it occurs in.
	ErrValidation = errors.New("validation failed")
)

// Fine-grained validation errors.
var (
	// ErrEmptyContent indicates an empty document or message body.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyQuery indicates an empty user question or search query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidRole indicates an invalid Role value on a chat message.
	ErrInvalidRole = errors.New("invalid message role")
)

// DimensionMismatch builds the configuration error raised when an embedder's
// vector dimension does not match the document store's index dimension.
// It must be raised before any search or write is issued.
func DimensionMismatch(got, want int) error {
	return fmt.Errorf("%w: embedding dimension %d does not match index dimension %d", ErrConfiguration, got, want)
}
