package service

import (
	"context"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/chartrender"
	"github.com/supertypo/kaspa-hashrate-app/internal/logger"
	"github.com/supertypo/kaspa-hashrate-app/internal/models"
	"github.com/supertypo/kaspa-hashrate-app/internal/repository"
	"github.com/supertypo/kaspa-hashrate-app/internal/upstream"
)

// HistoryAPI is the upstream hashrate-history endpoint.
type HistoryAPI interface {
	FetchHistory(ctx context.Context, resolution upstream.Resolution) ([]models.Sample, error)
}

// Cache exposes the TTL-bounded snapshot store. Get never surfaces
// persistence faults; they are logged and reported as a miss.
type Cache interface {
	Get(ctx context.Context, resolution upstream.Resolution) ([]models.Sample, bool)
	Set(ctx context.Context, resolution upstream.Resolution, samples []models.Sample)
	Invalidate(ctx context.Context, resolution upstream.Resolution)
	InvalidateExpired(ctx context.Context) int64
}

// History resolves a resolution or window to samples, cache first.
type History interface {
	Fetch(ctx context.Context, resolution upstream.Resolution) ([]models.Sample, error)
	FetchWindow(ctx context.Context, window models.Window) ([]models.Sample, error)
}

// Widget owns the main chart's Loading/Ready/Error lifecycle.
type Widget interface {
	Refresh(ctx context.Context, window models.Window, scale string) models.ChartState
	State() models.ChartState
	RenderPNG() ([]byte, error)
}

// Navigator maps pointer gestures over the overview track onto the
// selected sub-range of the full dataset.
type Navigator interface {
	SetDataset(first, last time.Time)
	Resize(width float64)
	PressHandle(handle Handle) bool
	Move(x float64)
	Release() bool
	Click(x float64) bool
	Selection() models.SelectedRange
	DragState() DragState
	HandlePositions() (startPct, endPct float64)
	Window() models.Window
	SetOnChange(fn func(models.Window))
}

// Sweeper runs the background loop purging expired cache entries.
// Stop via context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Cache
	History
	Widget
	Navigator
	Sweeper
}

// Options carries tunables that default sensibly when zero.
type Options struct {
	CacheTTL       time.Duration
	CacheNamespace string
	Now            func() time.Time
}

// NewService wires the repository, upstream client, and renderer into
// concrete services.
func NewService(repos *repository.Repository, api HistoryAPI, renderer chartrender.Renderer, log *logger.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CacheNamespace == "" {
		opts.CacheNamespace = DefaultCacheNamespace
	}

	cache := NewCacheStore(repos.Cache, opts.CacheTTL, opts.CacheNamespace, log, opts.Now)
	history := NewHistoryService(api, cache, log, opts.Now)

	return &Service{
		Cache:     cache,
		History:   history,
		Widget:    NewWidgetService(history, renderer, log, opts.Now),
		Navigator: NewNavigatorService(),
		Sweeper:   NewSweeperService(cache, log),
	}
}
