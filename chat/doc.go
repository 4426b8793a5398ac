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

// Package chat implements the conversational retrieval flow.
//
// Each turn runs through an explicit pipeline: the question is rewritten
// into a standalone search query using the conversation history, supporting
// documents are retrieved lexically or by embedding similarity, a prompt is
// assembled from history, documents, and the question, the model generates
// a reply, and the user/assistant pair is appended to history atomically.
//
// Prompt assembly is a pure function (BuildPrompt), so the exact text sent
// to the model is testable without a store or a model in reach.
package chat
