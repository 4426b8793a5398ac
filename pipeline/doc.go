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

// Package pipeline provides a small typed-port dataflow graph.
//
// A Graph is assembled from Stages that declare which state ports they read
// and write. All wiring errors are caught when the graph is constructed:
// an input port with no producer, two stages claiming the same output, or a
// dependency cycle. Run then executes each stage exactly once in dependency
// order, threading a shared State through the stages.
//
// Both ingestion and the conversational retrieval flow are built on this
// package, so their topologies are explicit and checked up front rather than
// implicit in call order.
package pipeline
