package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
	"github.com/supertypo/kaspa-hashrate-app/internal/service"
)

func sampleSeq(n int) []models.Sample {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Sample, n)
	for i := range out {
		out[i] = models.Sample{
			DAAScore:    int64(i),
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			HashrateKHs: float64(i),
		}
	}
	return out
}

func doRequest(t *testing.T, s *service.Service, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestRouter(s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(t, &service.Service{}, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetHashrate_PresetReturnsSamples(t *testing.T) {
	mh := &mockHistory{windowResp: sampleSeq(12)}
	s := &service.Service{History: mh}

	w := doRequest(t, s, http.MethodGet, "/api/v1/hashrate?range=7d")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Count   int             `json:"count"`
		Samples []models.Sample `json:"samples"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 12 || len(resp.Samples) != 12 {
		t.Fatalf("unexpected response: count=%d len=%d", resp.Count, len(resp.Samples))
	}
	if mh.windowCalls != 1 {
		t.Fatalf("expected 1 FetchWindow call, got %d", mh.windowCalls)
	}
	// 7d preset: window starts 7 days before now, unbounded end
	if got := time.Since(mh.lastWindow.Start); got < 7*24*time.Hour-time.Minute || got > 7*24*time.Hour+time.Minute {
		t.Fatalf("unexpected window start: %v", mh.lastWindow.Start)
	}
	if !mh.lastWindow.End.IsZero() {
		t.Fatalf("expected unbounded end, got %v", mh.lastWindow.End)
	}
}

func TestGetHashrate_UnknownPreset(t *testing.T) {
	mh := &mockHistory{}
	w := doRequest(t, &service.Service{History: mh}, http.MethodGet, "/api/v1/hashrate?range=14d")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if mh.windowCalls != 0 {
		t.Fatalf("fetch must not run for an invalid preset")
	}
}

func TestGetHashrate_ExplicitWindow(t *testing.T) {
	mh := &mockHistory{windowResp: sampleSeq(3)}
	s := &service.Service{History: mh}

	w := doRequest(t, s, http.MethodGet, "/api/v1/hashrate?start=2024-01-01&end=2024-03-01")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !mh.lastWindow.Start.Equal(wantStart) {
		t.Fatalf("unexpected start: %v", mh.lastWindow.Start)
	}
	// date-only end is end-of-day inclusive
	wantEnd := time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC)
	if !mh.lastWindow.End.Equal(wantEnd) {
		t.Fatalf("unexpected end: %v", mh.lastWindow.End)
	}
}

func TestGetHashrate_StartAfterEnd(t *testing.T) {
	w := doRequest(t, &service.Service{History: &mockHistory{}}, http.MethodGet,
		"/api/v1/hashrate?start=2024-03-01&end=2024-01-01")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetHashrate_UpstreamFailure(t *testing.T) {
	mh := &mockHistory{windowErr: errors.New("connection refused")}
	w := doRequest(t, &service.Service{History: mh}, http.MethodGet, "/api/v1/hashrate?range=24h")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGetHashrate_EmptyWindow(t *testing.T) {
	mh := &mockHistory{windowResp: nil}
	w := doRequest(t, &service.Service{History: mh}, http.MethodGet, "/api/v1/hashrate?range=24h")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetChart_RendersPNG(t *testing.T) {
	mw := &mockWidget{
		refreshState: models.ChartState{Status: models.StatusReady},
		png:          []byte{0x89, 'P', 'N', 'G'},
	}
	s := &service.Service{Widget: mw}

	w := doRequest(t, s, http.MethodGet, "/api/v1/hashrate/chart.png?range=30d&scale=log")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	if mw.lastScale != models.ScaleLog {
		t.Fatalf("expected log scale, got %q", mw.lastScale)
	}
}

func TestGetChart_InvalidScale(t *testing.T) {
	mw := &mockWidget{}
	w := doRequest(t, &service.Service{Widget: mw}, http.MethodGet, "/api/v1/hashrate/chart.png?scale=sqrt")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if mw.refreshCalls != 0 {
		t.Fatalf("refresh must not run for an invalid scale")
	}
}

func TestGetChart_WidgetErrorIsBadGateway(t *testing.T) {
	mw := &mockWidget{
		refreshState: models.ChartState{Status: models.StatusError, Message: "no samples in the selected window"},
	}
	w := doRequest(t, &service.Service{Widget: mw}, http.MethodGet, "/api/v1/hashrate/chart.png?range=24h")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGetChart_RenderFailure(t *testing.T) {
	mw := &mockWidget{
		refreshState: models.ChartState{Status: models.StatusReady},
		renderErr:    errors.New("cannot render chart with 1 samples"),
	}
	w := doRequest(t, &service.Service{Widget: mw}, http.MethodGet, "/api/v1/hashrate/chart.png")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
