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


// Package storage provides the storage abstraction layer for converse.
//
// This package defines store interfaces that decouple storage implementation
// from pipeline logic, allowing different backends to be used interchangeably.
//
// # Stores
//
//   - DocumentStore: persisted document chunks, written by ingestion
//   - LexicalSearcher / VectorSearcher: the two retrieval strategies a
//     document store may support
//   - HistoryStore: the ordered conversation history with atomic turn append
//
// # Implementation Packages
//
//   - storage/badger: conversation history and the index registry on BadgerDB
//   - storage/memstore: in-memory document store with BM25 lexical search
//   - storage/chromem: chromem-go document store with vector search
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction and
// enable multiple backend implementations; internal constructors may return
// concrete types within their implementation package.
//
// # Concurrency Discipline
//
// The document store is read-mostly after ingestion; one ingestion job at a
// time is sufficient. The history store serializes append-then-read per
// conversation: a turn's pipeline run reads a history snapshot that excludes
// the turn being produced, and the turn becomes visible only once it fully
// completes.
//
// # Context Support
//
// All store methods accept context.Context for cancellation and timeout
// support.
package storage
