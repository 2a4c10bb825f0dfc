package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

// CacheRepo is a key-value store for cached hashrate snapshots.
// Load reports a miss (false) for absent keys; corrupt payloads surface
// as errors so the caller can decide how to recover.
type CacheRepo interface {
	Load(ctx context.Context, key string) (models.CacheEntry, bool, error)
	Save(ctx context.Context, key string, entry models.CacheEntry) error
	Delete(ctx context.Context, key string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Repository struct {
	Cache CacheRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Cache: NewCacheSQLite(db),
	}
}
