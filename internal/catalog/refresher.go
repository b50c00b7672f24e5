package catalog

import (
	"context"
	"log"
	"sync"
)

// Refresher owns the current catalog snapshot. Reads keep serving the previous
// snapshot while a refresh round-trip is in flight; a completed refresh swaps
// the snapshot in atomically. Concurrent refreshes are last-request-wins: a
// request that finishes after a newer request started discards its result.
type Refresher struct {
	loader Loader

	mu       sync.RWMutex
	current  *Snapshot
	latestID uint64
}

func NewRefresher(loader Loader) *Refresher {
	return &Refresher{loader: loader}
}

// Current returns the snapshot as of now, or nil if no refresh has succeeded
// yet. Every cart mutation must call this at the time of that specific call so
// stock checks use the freshest known figures.
func (r *Refresher) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Refresh loads a new snapshot and installs it, unless a newer refresh was
// requested while this one was in flight, in which case the stale result is
// discarded (never merged). The returned snapshot is the loaded one either way.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	r.latestID++
	id := r.latestID
	r.mu.Unlock()

	snapshot, err := r.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id != r.latestID {
		log.Printf("discarding stale catalog refresh (request %d, latest %d)", id, r.latestID)
		return snapshot, nil
	}
	r.current = snapshot
	return snapshot, nil
}
