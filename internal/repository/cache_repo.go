package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

type CacheSQLite struct {
	db *sql.DB
}

func NewCacheSQLite(db *sql.DB) *CacheSQLite {
	return &CacheSQLite{db: db}
}

const (
	upsertCacheSQL = `
		INSERT INTO hashrate_cache (key, payload, written_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload=excluded.payload,
			written_at=excluded.written_at
	`

	selectCacheSQL = `
		SELECT payload FROM hashrate_cache WHERE key=?
	`

	deleteCacheSQL = `
		DELETE FROM hashrate_cache WHERE key=?
	`

	deleteExpiredSQL = `
		DELETE FROM hashrate_cache WHERE written_at < ?
	`
)

// Load reads the entry for key. A missing row is a plain miss; a payload
// that fails to parse is returned as an error.
func (r *CacheSQLite) Load(ctx context.Context, key string) (models.CacheEntry, bool, error) {
	row := r.db.QueryRowContext(ctx, selectCacheSQL, key)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CacheEntry{}, false, nil
		}
		return models.CacheEntry{}, false, err
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return models.CacheEntry{}, false, fmt.Errorf("parse cache payload for %q: %w", key, err)
	}
	return entry, true, nil
}

// Save upserts the entry under key. The payload column carries the whole
// entry as JSON; written_at is duplicated for SQL-side expiry sweeps.
func (r *CacheSQLite) Save(ctx context.Context, key string, entry models.CacheEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache payload for %q: %w", key, err)
	}
	_, err = r.db.ExecContext(ctx, upsertCacheSQL, key, string(payload), entry.Timestamp)
	return err
}

func (r *CacheSQLite) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, deleteCacheSQL, key)
	return err
}

// DeleteOlderThan removes every entry written before cutoff and returns
// the number of rows removed.
func (r *CacheSQLite) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSQL, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
