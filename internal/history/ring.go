package history

import (
	"sync"
	"time"

	"github.com/jrowley/glimmer/internal/matrix"
)

// Entry is one accepted full-grid write.
//
// ID and Timestamp are both derived from the single instant the write
// was recorded, so they are always identical. Entries are immutable
// once stored.
type Entry struct {
	ID        string      `json:"id"`
	Grid      matrix.Grid `json:"grid"`
	Timestamp string      `json:"timestamp"`
}

// Ring is a bounded, newest-first buffer of grid submissions.
//
// Ring is safe for concurrent use: Record and Snapshot may be called
// from any number of request goroutines. Snapshot returns a copy, so
// readers never observe a mutation in progress.
type Ring struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// NewRing creates an empty ring holding at most capacity entries.
func NewRing(capacity int) *Ring {
	return &Ring{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Record timestamps the grid and prepends it to the ring, evicting the
// oldest entry if the ring is full. It never fails.
func (r *Ring) Record(g matrix.Grid) Entry {
	now := time.Now().Format(time.RFC3339Nano)
	e := Entry{ID: now, Grid: g, Timestamp: now}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{})
	copy(r.entries[1:], r.entries)
	r.entries[0] = e
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
	return e
}

// Snapshot returns a copy of the current entries, newest first.
//
// The returned slice is never nil, so it serializes as a JSON array
// even when empty. Modifying it does not affect the ring.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of stored entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
