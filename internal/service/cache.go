package service

import (
	"context"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/logger"
	"github.com/supertypo/kaspa-hashrate-app/internal/models"
	"github.com/supertypo/kaspa-hashrate-app/internal/repository"
	"github.com/supertypo/kaspa-hashrate-app/internal/upstream"
)

const (
	// DefaultCacheTTL is the freshness window for cached snapshots.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultCacheNamespace prefixes every cache key.
	DefaultCacheNamespace = "hashrate-history"
)

// CacheStore is the TTL-bounded snapshot cache over a CacheRepo.
// Persistence faults never reach callers: reads degrade to a miss and
// writes are best-effort, both logged.
type CacheStore struct {
	repo      repository.CacheRepo
	ttl       time.Duration
	namespace string
	log       *logger.Logger
	now       func() time.Time
}

func NewCacheStore(repo repository.CacheRepo, ttl time.Duration, namespace string, log *logger.Logger, now func() time.Time) *CacheStore {
	return &CacheStore{
		repo:      repo,
		ttl:       ttl,
		namespace: namespace,
		log:       log,
		now:       now,
	}
}

// key namespaces the resolution, with "full" as the sentinel for the
// unparameterized fetch.
func (c *CacheStore) key(resolution upstream.Resolution) string {
	return c.namespace + "-" + resolution.CacheKeySuffix()
}

// Get returns the cached samples for resolution, or a miss when the entry
// is absent, unparsable, or older than the freshness window. Expired
// entries are deleted as a side effect.
func (c *CacheStore) Get(ctx context.Context, resolution upstream.Resolution) ([]models.Sample, bool) {
	key := c.key(resolution)

	entry, ok, err := c.repo.Load(ctx, key)
	if err != nil {
		if c.log != nil {
			c.log.Warnw("cache_read_failed", "key", key, "err", err)
		}
		return nil, false
	}
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.WrittenAt()) > c.ttl {
		if err := c.repo.Delete(ctx, key); err != nil && c.log != nil {
			c.log.Warnw("cache_expire_delete_failed", "key", key, "err", err)
		}
		return nil, false
	}

	return models.ExpandAll(entry.Data), true
}

// Set writes the slim form tagged with the current time. Write failures
// must not fail the caller's fetch flow.
func (c *CacheStore) Set(ctx context.Context, resolution upstream.Resolution, samples []models.Sample) {
	key := c.key(resolution)
	entry := models.CacheEntry{
		Data:      models.SlimAll(samples),
		Timestamp: c.now().UnixMilli(),
	}
	if err := c.repo.Save(ctx, key, entry); err != nil && c.log != nil {
		c.log.Warnw("cache_write_failed", "key", key, "samples", len(samples), "err", err)
	}
}

// Invalidate removes the entry for resolution regardless of age.
func (c *CacheStore) Invalidate(ctx context.Context, resolution upstream.Resolution) {
	key := c.key(resolution)
	if err := c.repo.Delete(ctx, key); err != nil && c.log != nil {
		c.log.Warnw("cache_invalidate_failed", "key", key, "err", err)
	}
}

// InvalidateExpired removes every entry older than the freshness window
// and returns how many were removed.
func (c *CacheStore) InvalidateExpired(ctx context.Context) int64 {
	cutoff := c.now().Add(-c.ttl)
	n, err := c.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		if c.log != nil {
			c.log.Warnw("cache_sweep_failed", "err", err)
		}
		return 0
	}
	return n
}
