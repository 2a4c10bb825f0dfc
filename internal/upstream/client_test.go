package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const historyBody = `[
	{"daaScore": 1000, "hashrate_kh": 123.5, "date_time": "2024-01-01T00:00:00Z"},
	{"daaScore": 2000, "hashrate_kh": 130.25, "date_time": "2024-01-01 01:00:00"}
]`

func TestClient_FetchHistory_ParsesSamples(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(historyBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	samples, err := client.FetchHistory(context.Background(), ResolutionFull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "" {
		t.Fatalf("full resolution must not send a resolution parameter, got %q", gotQuery)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].DAAScore != 1000 || samples[0].HashrateKHs != 123.5 {
		t.Fatalf("unexpected first sample: %+v", samples[0])
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !samples[0].Timestamp.Equal(want) {
		t.Fatalf("expected %v, got %v", want, samples[0].Timestamp)
	}
	// space-separated layout is accepted too
	want = time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	if !samples[1].Timestamp.Equal(want) {
		t.Fatalf("expected %v, got %v", want, samples[1].Timestamp)
	}
}

func TestClient_FetchHistory_SendsResolution(t *testing.T) {
	var gotResolution string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotResolution = r.URL.Query().Get("resolution")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchHistory(context.Background(), Resolution1D); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotResolution != "1d" {
		t.Fatalf("expected resolution=1d, got %q", gotResolution)
	}
}

func TestClient_FetchHistory_NonSuccessIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchHistory(context.Background(), ResolutionFull)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", statusErr.StatusCode)
	}
}

func TestClient_FetchHistory_InvalidTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"daaScore": 1, "hashrate_kh": 2, "date_time": "yesterday"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchHistory(context.Background(), ResolutionFull); err == nil {
		t.Fatalf("expected an error for an unparsable timestamp")
	}
}

func TestResolution_CacheKeySuffix(t *testing.T) {
	if got := ResolutionFull.CacheKeySuffix(); got != "full" {
		t.Fatalf("expected sentinel 'full', got %q", got)
	}
	if got := Resolution1H.CacheKeySuffix(); got != "1h" {
		t.Fatalf("expected '1h', got %q", got)
	}
}
