package service

import (
	"errors"
	"strings"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

// PresetAll selects the whole dataset (window starting at the epoch).
const PresetAll = "all"

// presetDurations maps named range presets to the duration subtracted
// from "now" to form the window start.
var presetDurations = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"3m":  90 * 24 * time.Hour,
	"6m":  180 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"2y":  730 * 24 * time.Hour,
	"3y":  1095 * 24 * time.Hour,
}

var ErrUnknownPreset = errors.New("unknown range preset")

// Presets lists the accepted preset names, "all" excluded.
func Presets() []string {
	out := make([]string, 0, len(presetDurations))
	for name := range presetDurations {
		out = append(out, name)
	}
	return out
}

// ResolveWindow turns a named preset into a concrete window anchored at
// now. "all" starts at the epoch; every other preset subtracts its fixed
// duration. The returned window is unbounded on the right.
func ResolveWindow(preset string, now time.Time) (models.Window, error) {
	name := strings.ToLower(strings.TrimSpace(preset))
	if name == PresetAll {
		return models.Window{Start: time.Unix(0, 0).UTC()}, nil
	}
	d, ok := presetDurations[name]
	if !ok {
		return models.Window{}, ErrUnknownPreset
	}
	return models.Window{Start: now.Add(-d).UTC()}, nil
}

// FilterRange returns the samples inside the window, boundary inclusive
// on both ends. Input order is preserved; the input is expected sorted
// ascending by timestamp and is never re-sorted.
func FilterRange(samples []models.Sample, window models.Window) []models.Sample {
	out := make([]models.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Timestamp.Before(window.Start) {
			continue
		}
		if !window.End.IsZero() && s.Timestamp.After(window.End) {
			continue
		}
		out = append(out, s)
	}
	return out
}
