package service

import (
	"sync"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

// DragState is the navigator's interaction state.
type DragState string

const (
	DragIdle  DragState = "IDLE"
	DragStart DragState = "DRAGGING_START"
	DragEnd   DragState = "DRAGGING_END"
)

// Handle identifies which selection bound a press targets.
type Handle string

const (
	HandleStart Handle = "start"
	HandleEnd   Handle = "end"
)

const (
	// MinWindow is the smallest selectable range; drags clamp against it
	// so the bounds can never cross into a degenerate window.
	MinWindow = time.Hour

	// fetchBuffer widens the committed window on both sides so boundary
	// samples are not dropped by coarse resolution buckets.
	fetchBuffer = time.Hour
)

// NavigatorService tracks a selectable sub-range over the full dataset
// span, driven by abstract pointer events mapped from pixel offsets to
// instants. Pointer events arriving before SetDataset are no-ops.
type NavigatorService struct {
	mu sync.Mutex

	first, last time.Time // dataset span
	width       float64   // track width in pixels

	sel       models.SelectedRange
	drag      DragState
	dragDirty bool

	onChange func(models.Window)
}

func NewNavigatorService() *NavigatorService {
	return &NavigatorService{drag: DragIdle}
}

// SetOnChange registers the callback fired after a gesture commits a new
// range. The callback runs outside the navigator's lock.
func (n *NavigatorService) SetOnChange(fn func(models.Window)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

// SetDataset establishes the span and resets the selection to cover it.
// A zero-length span leaves the navigator inert.
func (n *NavigatorService) SetDataset(first, last time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.first = first.UTC()
	n.last = last.UTC()
	n.drag = DragIdle
	n.dragDirty = false
	if n.span() <= 0 {
		n.sel = models.SelectedRange{}
		return
	}
	n.sel = models.SelectedRange{Start: n.first, End: n.last}
}

// Resize sets the visual track width used to map offsets to instants.
func (n *NavigatorService) Resize(width float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if width < 0 {
		width = 0
	}
	n.width = width
}

// PressHandle enters the matching drag state. Reports whether a drag
// actually started.
func (n *NavigatorService) PressHandle(handle Handle) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.drag != DragIdle || n.span() <= 0 {
		return false
	}
	switch handle {
	case HandleStart:
		n.drag = DragStart
	case HandleEnd:
		n.drag = DragEnd
	default:
		return false
	}
	n.dragDirty = false
	return true
}

// Move updates the dragged bound from the pointer's horizontal offset.
// The dragged bound can never cross the opposite bound minus MinWindow,
// nor leave the dataset span.
func (n *NavigatorService) Move(x float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.drag == DragIdle || n.width <= 0 || n.span() <= 0 {
		return
	}

	t := n.timeAt(x)
	switch n.drag {
	case DragStart:
		if max := n.sel.End.Add(-MinWindow); t.After(max) {
			t = max
		}
		if t.Before(n.first) {
			t = n.first
		}
		if !t.Equal(n.sel.Start) {
			n.sel.Start = t
			n.dragDirty = true
		}
	case DragEnd:
		if min := n.sel.Start.Add(MinWindow); t.Before(min) {
			t = min
		}
		if t.After(n.last) {
			t = n.last
		}
		if !t.Equal(n.sel.End) {
			n.sel.End = t
			n.dragDirty = true
		}
	}
}

// Release ends an active drag and reports whether the selection changed
// during it, firing the change callback if so.
func (n *NavigatorService) Release() bool {
	n.mu.Lock()
	if n.drag == DragIdle {
		n.mu.Unlock()
		return false
	}
	n.drag = DragIdle
	changed := n.dragDirty
	n.dragDirty = false
	fn, window := n.onChange, n.windowLocked()
	n.mu.Unlock()

	if changed && fn != nil {
		fn(window)
	}
	return changed
}

// Click recenters the current window, width preserved, around the
// clicked instant. If recentering would overflow an edge the whole
// window shifts rather than shrinks. Ignored while dragging.
func (n *NavigatorService) Click(x float64) bool {
	n.mu.Lock()
	if n.drag != DragIdle || n.width <= 0 || n.span() <= 0 || n.sel.IsZero() {
		n.mu.Unlock()
		return false
	}

	t := n.timeAt(x)
	w := n.sel.Width()
	start := t.Add(-w / 2)
	end := start.Add(w)
	if start.Before(n.first) {
		start = n.first
		end = start.Add(w)
	}
	if end.After(n.last) {
		end = n.last
		start = end.Add(-w)
	}
	if start.Before(n.first) {
		// window wider than the whole span
		start = n.first
	}

	next := models.SelectedRange{Start: start, End: end}
	changed := !next.Start.Equal(n.sel.Start) || !next.End.Equal(n.sel.End)
	if changed {
		n.sel = next
	}
	fn, window := n.onChange, n.windowLocked()
	n.mu.Unlock()

	if changed && fn != nil {
		fn(window)
	}
	return changed
}

// Selection returns the current selected range.
func (n *NavigatorService) Selection() models.SelectedRange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sel
}

// DragState returns the current interaction state.
func (n *NavigatorService) DragState() DragState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.drag
}

// HandlePositions returns each bound's proportional offset within the
// dataset span as a percentage, for track layout.
func (n *NavigatorService) HandlePositions() (startPct, endPct float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	span := n.span()
	if span <= 0 || n.sel.IsZero() {
		return 0, 100
	}
	startPct = float64(n.sel.Start.Sub(n.first)) / float64(span) * 100
	endPct = float64(n.sel.End.Sub(n.first)) / float64(span) * 100
	return startPct, endPct
}

// Window returns the selection widened by the fetch buffer on both
// sides, clamped to the dataset span.
func (n *NavigatorService) Window() models.Window {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.windowLocked()
}

func (n *NavigatorService) windowLocked() models.Window {
	if n.sel.IsZero() {
		return models.Window{}
	}
	start := n.sel.Start.Add(-fetchBuffer)
	if start.Before(n.first) {
		start = n.first
	}
	end := n.sel.End.Add(fetchBuffer)
	if end.After(n.last) {
		end = n.last
	}
	return models.Window{Start: start, End: end}
}

func (n *NavigatorService) span() time.Duration {
	if n.first.IsZero() || n.last.IsZero() {
		return 0
	}
	return n.last.Sub(n.first)
}

// timeAt maps a clamped horizontal offset to an instant by linear
// interpolation between the dataset's first and last timestamps.
func (n *NavigatorService) timeAt(x float64) time.Time {
	if x < 0 {
		x = 0
	}
	if x > n.width {
		x = n.width
	}
	p := x / n.width
	return n.first.Add(time.Duration(p * float64(n.span())))
}
