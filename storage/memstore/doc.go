// Package memstore provides an in-memory document store with BM25 lexical
// ranking. It serves indexes that retrieve by keyword rather than by
// embedding similarity, and it backs tests that need a store without disk
// or network access.
package memstore
