// Package history keeps a bounded, in-memory record of recently
// accepted full-grid writes.
//
// The ring is newest-first and evicts the oldest entry once capacity
// is reached. Only full-grid writes are recorded; single-pixel writes
// are deliberately not. Entries live for the process lifetime and are
// never persisted.
package history
