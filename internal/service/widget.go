package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/chartrender"
	"github.com/supertypo/kaspa-hashrate-app/internal/logger"
	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

var (
	ErrChartNotReady = errors.New("chart has no data to render")
	ErrInvalidScale  = errors.New("invalid scale: must be linear or log")
)

// errNoSamples is the empty-result fault: a successful fetch with zero
// samples is treated exactly like a network fault.
var errNoSamples = errors.New("no samples in the selected window")

// WidgetService owns the main chart's state machine:
// Loading -> Ready | Error. Every refresh carries a monotonic token;
// a refresh that finishes after a newer one started is discarded, so a
// slow stale response can never overwrite a newer selection.
type WidgetService struct {
	history  History
	renderer chartrender.Renderer
	log      *logger.Logger
	now      func() time.Time

	token atomic.Uint64

	mu    sync.Mutex
	state models.ChartState
}

func NewWidgetService(history History, renderer chartrender.Renderer, log *logger.Logger, now func() time.Time) *WidgetService {
	w := &WidgetService{
		history:  history,
		renderer: renderer,
		log:      log,
		now:      now,
	}
	w.state = models.ChartState{
		Status:    models.StatusLoading,
		Scale:     models.ScaleLinear,
		UpdatedAt: now(),
	}
	return w
}

// ValidScale reports whether scale names a supported Y-axis scale.
func ValidScale(scale string) bool {
	return scale == models.ScaleLinear || scale == models.ScaleLog
}

// Refresh fetches the window and drives the state machine. An empty
// scale keeps the current one. Failures and empty results both land in
// Error with previous samples cleared; there is no retry scheduling.
func (w *WidgetService) Refresh(ctx context.Context, window models.Window, scale string) models.ChartState {
	tok := w.token.Add(1)

	w.mu.Lock()
	if scale == "" {
		scale = w.state.Scale
	}
	w.state = models.ChartState{
		Status:    models.StatusLoading,
		Scale:     scale,
		Window:    window,
		UpdatedAt: w.now(),
	}
	w.mu.Unlock()

	samples, err := w.history.FetchWindow(ctx, window)
	if err == nil && len(samples) == 0 {
		err = errNoSamples
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if tok != w.token.Load() {
		if w.log != nil {
			w.log.Debugw("chart_refresh_superseded", "token", tok)
		}
		return w.state
	}

	if err != nil {
		w.state = models.ChartState{
			Status:    models.StatusError,
			Scale:     scale,
			Window:    window,
			Message:   err.Error(),
			UpdatedAt: w.now(),
		}
		return w.state
	}

	w.state = models.ChartState{
		Status:    models.StatusReady,
		Samples:   samples,
		Scale:     scale,
		Window:    window,
		UpdatedAt: w.now(),
	}
	return w.state
}

// State returns a snapshot of the current chart state.
func (w *WidgetService) State() models.ChartState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// RenderPNG renders the current Ready samples through the renderer.
func (w *WidgetService) RenderPNG() ([]byte, error) {
	w.mu.Lock()
	state := w.state
	w.mu.Unlock()

	if state.Status != models.StatusReady {
		return nil, ErrChartNotReady
	}
	return w.renderer.Render(state.Samples, state.Scale, state.Window)
}
