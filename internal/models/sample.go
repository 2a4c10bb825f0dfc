package models

import "time"

// Sample is a single network-hashrate data point. Immutable once fetched.
type Sample struct {
	DAAScore    int64     `json:"daaScore"`    // difficulty-adjusted cumulative block count
	Timestamp   time.Time `json:"date_time"`   // sample instant
	HashrateKHs float64   `json:"hashrate_kh"` // kH/s
}

// SlimSample is the persisted form of Sample: compact keys, timestamp as
// epoch milliseconds. Round-trips losslessly at millisecond precision.
type SlimSample struct {
	D int64   `json:"d"` // DAA score
	T int64   `json:"t"` // epoch ms
	H float64 `json:"h"` // hashrate kH/s
}

// Slim converts a Sample to its persisted form.
func (s Sample) Slim() SlimSample {
	return SlimSample{
		D: s.DAAScore,
		T: s.Timestamp.UnixMilli(),
		H: s.HashrateKHs,
	}
}

// Sample restores the full form. Timestamps come back in UTC.
func (s SlimSample) Sample() Sample {
	return Sample{
		DAAScore:    s.D,
		Timestamp:   time.UnixMilli(s.T).UTC(),
		HashrateKHs: s.H,
	}
}

// SlimAll converts a sample sequence to its persisted form, preserving order.
func SlimAll(samples []Sample) []SlimSample {
	out := make([]SlimSample, len(samples))
	for i, s := range samples {
		out[i] = s.Slim()
	}
	return out
}

// ExpandAll restores a persisted sequence, preserving order.
func ExpandAll(slim []SlimSample) []Sample {
	out := make([]Sample, len(slim))
	for i, s := range slim {
		out[i] = s.Sample()
	}
	return out
}

// CacheEntry is one persisted cache row: the slim samples plus the
// epoch-ms instant the entry was written.
type CacheEntry struct {
	Data      []SlimSample `json:"data"`
	Timestamp int64        `json:"timestamp"`
}

// WrittenAt returns the write instant in UTC.
func (e CacheEntry) WrittenAt() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}
