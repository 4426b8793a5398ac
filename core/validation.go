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

import "fmt"

// ValidateChatMessage validates a ChatMessage according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Role must be valid (system, user, or assistant)
func ValidateChatMessage(message ChatMessage) error {
	if message.Text == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyContent)
	}
	if err := ValidateRole(message.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//
// NOT validated:
//   - Embedding (may be empty for lexical-only stores)
//   - Metadata (optional)
func ValidateDocument(document *Document) error {
	if document == nil {
		return fmt.Errorf("%w: document is nil", ErrValidation)
	}
	if document.Content == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyContent)
	}
	return nil
}

// ValidateTurn validates a conversation turn: the user and assistant messages
// must both be valid and carry their respective roles.
func ValidateTurn(turn Turn) error {
	if err := ValidateChatMessage(turn.User); err != nil {
		return err
	}
	if err := ValidateChatMessage(turn.Assistant); err != nil {
		return err
	}
	if turn.User.Role != RoleUser {
		return fmt.Errorf("%w: turn must start with a user message, got %s", ErrValidation, turn.User.Role)
	}
	if turn.Assistant.Role != RoleAssistant {
		return fmt.Errorf("%w: turn must end with an assistant message, got %s", ErrValidation, turn.Assistant.Role)
	}
	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleSystem && role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}
