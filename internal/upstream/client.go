package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

// Resolution is the server-side downsampling bucket requested to bound
// payload size for wide time spans. The empty value means full resolution
// (no query parameter sent).
type Resolution string

const (
	ResolutionFull Resolution = ""
	Resolution1H   Resolution = "1h"
	Resolution1D   Resolution = "1d"
)

// CacheKeySuffix returns the resolution's cache-key component, with a
// sentinel for full resolution.
func (r Resolution) CacheKeySuffix() string {
	if r == ResolutionFull {
		return "full"
	}
	return string(r)
}

// StatusError reports a non-2xx response from the history endpoint.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hashrate history request failed: %s", e.Status)
}

// sampleDTO matches the upstream JSON wire format.
type sampleDTO struct {
	DAAScore   int64   `json:"daaScore"`
	HashrateKH float64 `json:"hashrate_kh"`
	DateTime   string  `json:"date_time"`
}

const (
	layoutDateTimeSpace = "2006-01-02 15:04:05"

	defaultTimeout = 30 * time.Second
)

// Client fetches hashrate history from the upstream HTTP API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a client for the given history endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// FetchHistory performs a single GET for the given resolution and parses
// the response into samples. Non-2xx responses return a *StatusError.
func (c *Client) FetchHistory(ctx context.Context, resolution Resolution) ([]models.Sample, error) {
	reqURL := c.endpoint
	if resolution != ResolutionFull {
		reqURL += "?resolution=" + url.QueryEscape(string(resolution))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch hashrate history: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var dtos []sampleDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode hashrate history: %w", err)
	}
	return expandDTOs(dtos)
}

func expandDTOs(dtos []sampleDTO) ([]models.Sample, error) {
	samples := make([]models.Sample, 0, len(dtos))
	for i, d := range dtos {
		ts, err := parseSampleTime(d.DateTime)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples = append(samples, models.Sample{
			DAAScore:    d.DAAScore,
			Timestamp:   ts,
			HashrateKHs: d.HashrateKH,
		})
	}
	return samples, nil
}

// parseSampleTime accepts RFC3339 and the space-separated variant the
// upstream emits for some resolutions, normalized to UTC.
func parseSampleTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTimeSpace} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date_time %q", s)
}
