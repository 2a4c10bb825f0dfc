package repository

import (
	"context"
	"sync"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

// CacheMemory is a map-backed CacheRepo for tests and ephemeral runs.
type CacheMemory struct {
	mu      sync.Mutex
	entries map[string]models.CacheEntry
}

func NewCacheMemory() *CacheMemory {
	return &CacheMemory{entries: make(map[string]models.CacheEntry)}
}

func (r *CacheMemory) Load(_ context.Context, key string) (models.CacheEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	return entry, ok, nil
}

func (r *CacheMemory) Save(_ context.Context, key string, entry models.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry
	return nil
}

func (r *CacheMemory) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

func (r *CacheMemory) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	cut := cutoff.UnixMilli()
	for key, entry := range r.entries {
		if entry.Timestamp < cut {
			delete(r.entries, key)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored entries (test helper).
func (r *CacheMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
