package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/supertypo/kaspa-hashrate-app/internal/logger"
	"github.com/supertypo/kaspa-hashrate-app/internal/models"
	"github.com/supertypo/kaspa-hashrate-app/internal/upstream"
)

// Span thresholds for the resolution-selection policy. Wider windows get
// coarser server-side buckets to bound the number of points transferred.
const (
	fullResolutionMaxSpan   = 14 * 24 * time.Hour
	mediumResolutionMaxSpan = 60 * 24 * time.Hour
)

// ResolutionForSpan picks the downsampling bucket for a window length.
// Pure function of the span.
func ResolutionForSpan(span time.Duration) upstream.Resolution {
	switch {
	case span <= fullResolutionMaxSpan:
		return upstream.ResolutionFull
	case span <= mediumResolutionMaxSpan:
		return upstream.Resolution1H
	default:
		return upstream.Resolution1D
	}
}

// HistoryService serves samples cache-first, hitting the upstream API
// only on a miss.
type HistoryService struct {
	api   HistoryAPI
	cache Cache
	log   *logger.Logger
	now   func() time.Time
}

func NewHistoryService(api HistoryAPI, cache Cache, log *logger.Logger, now func() time.Time) *HistoryService {
	return &HistoryService{api: api, cache: cache, log: log, now: now}
}

// Fetch returns the sample set for resolution. A fresh cache entry is
// served without touching the network; otherwise a single upstream GET
// repopulates the cache.
func (s *HistoryService) Fetch(ctx context.Context, resolution upstream.Resolution) ([]models.Sample, error) {
	if samples, ok := s.cache.Get(ctx, resolution); ok {
		if s.log != nil {
			s.log.Debugw("history_cache_hit", "resolution", resolution.CacheKeySuffix(), "samples", len(samples))
		}
		return samples, nil
	}

	fetchID := uuid.NewString()
	if s.log != nil {
		s.log.Infow("history_fetch", "fetch_id", fetchID, "resolution", resolution.CacheKeySuffix())
	}

	samples, err := s.api.FetchHistory(ctx, resolution)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("history_fetch_failed", "fetch_id", fetchID, "err", err)
		}
		return nil, err
	}

	s.cache.Set(ctx, resolution, samples)
	if s.log != nil {
		s.log.Infow("history_fetched", "fetch_id", fetchID, "samples", len(samples))
	}
	return samples, nil
}

// FetchWindow picks the resolution for the window's span, fetches, and
// narrows the result to the window.
func (s *HistoryService) FetchWindow(ctx context.Context, window models.Window) ([]models.Sample, error) {
	resolution := ResolutionForSpan(window.Span(s.now()))
	samples, err := s.Fetch(ctx, resolution)
	if err != nil {
		return nil, err
	}
	return FilterRange(samples, window), nil
}
