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

// Package ingest turns source files into searchable document chunks.
//
// Sources are routed by media type (plain text, markdown, PDF, DOCX),
// converted to plain text, cleaned, and split into overlapping word-window
// chunks whose IDs are derived from their source and content, so repeating
// an ingest is idempotent. Chunks destined for a vector index are embedded
// before the write; lexical indexes skip the embedding step.
//
// The flow is assembled as a pipeline.Graph, so the topology is validated
// before the first file is opened. Service wraps the pipeline for
// background execution.
package ingest
