package models

import "time"

// SelectedRange is the navigator's selection over the dataset span.
// Start <= End always holds; both bounds stay inside the dataset span.
type SelectedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Width returns End - Start.
func (r SelectedRange) Width() time.Duration {
	return r.End.Sub(r.Start)
}

// IsZero reports whether no selection has been established yet.
func (r SelectedRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Window is a time window used to narrow the full sample set.
// A zero End means unbounded on the right.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"`
}

// Span returns the window length; unbounded windows measure up to now.
func (w Window) Span(now time.Time) time.Duration {
	end := w.End
	if end.IsZero() {
		end = now
	}
	return end.Sub(w.Start)
}
