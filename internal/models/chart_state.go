package models

import "time"

// Chart lifecycle status.
const (
	StatusLoading = "LOADING"
	StatusReady   = "READY"
	StatusError   = "ERROR"
)

// Y-axis scale kinds.
const (
	ScaleLinear = "linear"
	ScaleLog    = "log"
)

// ChartState is the current snapshot of the main chart.
// Samples is nil unless Status is READY.
type ChartState struct {
	Status    string    `json:"status"` // LOADING | READY | ERROR
	Samples   []Sample  `json:"samples,omitempty"`
	Scale     string    `json:"scale"`             // linear | log
	Window    Window    `json:"window"`            // window the samples were fetched for
	Message   string    `json:"message,omitempty"` // failure description when Status=ERROR
	UpdatedAt time.Time `json:"updated_at"`
}
