package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/yrno-forecast/internal/weather"
)

func TestYrNoSource_Request(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<weatherdata/>`))
	}))
	defer srv.Close()

	src := NewYrNoSource(srv.Client(), YrNoConfig{BaseURL: srv.URL + "/", UserAgent: "test-agent"})

	alt := 12
	body, err := src.Locationforecast(context.Background(), weather.Request{
		Query:   weather.Location{Latitude: 53.3478, Longitude: 6.2597, Altitude: &alt},
		Version: "1.9",
	})
	if err != nil {
		t.Fatalf("Locationforecast() error = %v", err)
	}
	if body != `<weatherdata/>` {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/1.9/" {
		t.Errorf("path = %q, want /1.9/", gotPath)
	}
	if gotQuery != "lat=53.3478&lon=6.2597&msl=12" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestYrNoSource_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "server error", status: http.StatusBadGateway, want: ErrServerError},
		{name: "not found", status: http.StatusNotFound, want: ErrUnexpected},
		{name: "deprecated version", status: http.StatusForbidden, want: ErrUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			src := NewYrNoSource(srv.Client(), YrNoConfig{BaseURL: srv.URL})
			_, err := src.Locationforecast(context.Background(), weather.Request{Version: "1.9"})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestYrNoSource_NoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewYrNoSource(srv.Client(), YrNoConfig{BaseURL: srv.URL})
	if _, err := src.Locationforecast(context.Background(), weather.Request{Version: "1.9"}); err == nil {
		t.Fatalf("Locationforecast() error = nil")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestYrNoSource_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewYrNoSource(srv.Client(), YrNoConfig{
		BaseURL: srv.URL,
		Breaker: BreakerSettings{MaxRequests: 1, Timeout: time.Minute, ConsecutiveFailures: 2},
	})

	req := weather.Request{Version: "1.9"}
	for range 2 {
		if _, err := src.Locationforecast(context.Background(), req); !errors.Is(err, ErrServerError) {
			t.Fatalf("error = %v, want %v", err, ErrServerError)
		}
	}

	_, err := src.Locationforecast(context.Background(), req)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("error = %v, want %v", err, ErrCircuitOpen)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server called %d times, want 2", n)
	}
}

func TestYrNoSource_Canceled(t *testing.T) {
	src := NewYrNoSource(http.DefaultClient, YrNoConfig{BaseURL: "http://127.0.0.1:1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Locationforecast(ctx, weather.Request{Version: "1.9"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

func TestYrNoSource_RequiresVersion(t *testing.T) {
	src := NewYrNoSource(nil, YrNoConfig{})
	if _, err := src.Locationforecast(context.Background(), weather.Request{}); err == nil {
		t.Errorf("Locationforecast() error = nil, want non-nil")
	}
}
