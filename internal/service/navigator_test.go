package service

import (
	"testing"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

const trackWidth = 600.0

// newTestNavigator spans 2024-01-01T00:00Z .. 2024-03-01T00:00Z (60 days)
// over a 600px track, selection covering the whole span.
func newTestNavigator() (*NavigatorService, time.Time, time.Time) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	nav := NewNavigatorService()
	nav.SetDataset(first, last)
	nav.Resize(trackWidth)
	return nav, first, last
}

func TestNavigator_InertBeforeDataset(t *testing.T) {
	nav := NewNavigatorService()
	nav.Resize(trackWidth)
	if nav.PressHandle(HandleStart) {
		t.Fatalf("press must be rejected without a dataset")
	}
	if nav.Click(300) {
		t.Fatalf("click must be rejected without a dataset")
	}
	if got := nav.DragState(); got != DragIdle {
		t.Fatalf("expected IDLE, got %s", got)
	}
}

func TestNavigator_SetDatasetResetsSelection(t *testing.T) {
	nav, first, last := newTestNavigator()
	sel := nav.Selection()
	if !sel.Start.Equal(first) || !sel.End.Equal(last) {
		t.Fatalf("expected selection covering the span, got %+v", sel)
	}
	startPct, endPct := nav.HandlePositions()
	if startPct != 0 || endPct != 100 {
		t.Fatalf("expected handles at 0%% and 100%%, got %.2f%% and %.2f%%", startPct, endPct)
	}
}

func TestNavigator_DragStartClampsAtMinWindow(t *testing.T) {
	nav, first, last := newTestNavigator()

	if !nav.PressHandle(HandleStart) {
		t.Fatalf("press rejected")
	}
	if got := nav.DragState(); got != DragStart {
		t.Fatalf("expected DRAGGING_START, got %s", got)
	}

	// drag far past the end handle
	nav.Move(trackWidth + 50)
	sel := nav.Selection()
	if sel.Width() != MinWindow {
		t.Fatalf("expected minimum window %v, got %v", MinWindow, sel.Width())
	}
	if !sel.Start.Equal(last.Add(-MinWindow)) {
		t.Fatalf("expected start at last-1h, got %v", sel.Start)
	}

	// and far past the left edge
	nav.Move(-50)
	sel = nav.Selection()
	if !sel.Start.Equal(first) {
		t.Fatalf("expected start clamped to first, got %v", sel.Start)
	}

	if !nav.Release() {
		t.Fatalf("expected Release to report a change")
	}
	if got := nav.DragState(); got != DragIdle {
		t.Fatalf("expected IDLE after release, got %s", got)
	}
}

func TestNavigator_DragEndClampsAtMinWindow(t *testing.T) {
	nav, first, _ := newTestNavigator()

	nav.PressHandle(HandleEnd)
	nav.Move(0)
	sel := nav.Selection()
	if !sel.End.Equal(first.Add(MinWindow)) {
		t.Fatalf("expected end at first+1h, got %v", sel.End)
	}
	if sel.Width() != MinWindow {
		t.Fatalf("expected minimum window, got %v", sel.Width())
	}
	nav.Release()
}

func TestNavigator_ReleaseWithoutMovementReportsNoChange(t *testing.T) {
	nav, _, _ := newTestNavigator()

	fired := false
	nav.SetOnChange(func(models.Window) { fired = true })

	nav.PressHandle(HandleStart)
	if nav.Release() {
		t.Fatalf("expected no change without movement")
	}
	if fired {
		t.Fatalf("change callback fired for a no-op drag")
	}
}

func TestNavigator_SecondPressIgnoredWhileDragging(t *testing.T) {
	nav, _, _ := newTestNavigator()

	nav.PressHandle(HandleStart)
	if nav.PressHandle(HandleEnd) {
		t.Fatalf("press must be rejected while dragging")
	}
	if nav.Click(300) {
		t.Fatalf("click must be ignored while dragging")
	}
	nav.Release()
}

func TestNavigator_ClickRecentersPreservingWidth(t *testing.T) {
	nav, first, _ := newTestNavigator()

	// shrink the selection to the first 30 days (x=300 is mid-track)
	nav.PressHandle(HandleEnd)
	nav.Move(300)
	nav.Release()

	sel := nav.Selection()
	width := sel.Width()
	if width != 30*24*time.Hour {
		t.Fatalf("expected 30d selection, got %v", width)
	}

	// click mid-track: window recenters on first+30d
	if !nav.Click(300) {
		t.Fatalf("expected click to change the selection")
	}
	sel = nav.Selection()
	center := first.Add(30 * 24 * time.Hour)
	if !sel.Start.Equal(center.Add(-width/2)) || !sel.End.Equal(center.Add(width/2)) {
		t.Fatalf("expected recentered window around %v, got %+v", center, sel)
	}
	if sel.Width() != width {
		t.Fatalf("click changed the width: %v -> %v", width, sel.Width())
	}
}

func TestNavigator_ClickAtLastShiftsInsteadOfShrinking(t *testing.T) {
	nav, _, last := newTestNavigator()

	// 30-day selection at the left edge
	nav.PressHandle(HandleEnd)
	nav.Move(300)
	nav.Release()
	width := nav.Selection().Width()

	// click at the far right: the window must end exactly at last
	if !nav.Click(trackWidth) {
		t.Fatalf("expected click to change the selection")
	}
	sel := nav.Selection()
	if !sel.End.Equal(last) {
		t.Fatalf("expected end exactly at last, got %v", sel.End)
	}
	if !sel.Start.Equal(last.Add(-width)) {
		t.Fatalf("expected start at last-%v, got %v", width, sel.Start)
	}
}

func TestNavigator_HandlePositionsArePercentages(t *testing.T) {
	nav, _, _ := newTestNavigator()

	nav.PressHandle(HandleEnd)
	nav.Move(300)
	nav.Release()

	startPct, endPct := nav.HandlePositions()
	if startPct != 0 || endPct != 50 {
		t.Fatalf("expected 0%% and 50%%, got %.2f%% and %.2f%%", startPct, endPct)
	}
}

func TestNavigator_WindowAddsClampedBuffer(t *testing.T) {
	nav, first, last := newTestNavigator()

	// full-span selection: buffer cannot leave the dataset
	w := nav.Window()
	if !w.Start.Equal(first) || !w.End.Equal(last) {
		t.Fatalf("expected window clamped to span, got %+v", w)
	}

	// interior selection: buffer widens both sides by an hour
	nav.PressHandle(HandleEnd)
	nav.Move(300)
	nav.Release()
	nav.PressHandle(HandleStart)
	nav.Move(150)
	nav.Release()

	sel := nav.Selection()
	w = nav.Window()
	if got := sel.Start.Sub(w.Start); got != fetchBuffer {
		t.Fatalf("expected 1h leading buffer, got %v", got)
	}
	if got := w.End.Sub(sel.End); got != fetchBuffer {
		t.Fatalf("expected 1h trailing buffer, got %v", got)
	}
}

func TestNavigator_CommittedGesturesFireOnChange(t *testing.T) {
	nav, _, _ := newTestNavigator()

	var windows []models.Window
	nav.SetOnChange(func(w models.Window) { windows = append(windows, w) })

	nav.PressHandle(HandleEnd)
	nav.Move(300)
	nav.Release()
	if len(windows) != 1 {
		t.Fatalf("expected 1 change after drag commit, got %d", len(windows))
	}

	nav.Click(trackWidth)
	if len(windows) != 2 {
		t.Fatalf("expected 2 changes after click, got %d", len(windows))
	}

	sel := nav.Selection()
	w := windows[1]
	if w.Start.After(sel.Start) || w.End.Before(sel.End) {
		t.Fatalf("change window %+v must contain the selection %+v", w, sel)
	}
}
