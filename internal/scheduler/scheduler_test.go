package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/i474232898/yrno-forecast/internal/weather"
)

func fixtureClient(t *testing.T, failing weather.Location) *weather.Client {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "forecast", "testdata", "weather-response-oslo.xml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return weather.NewClient(weather.SourceFunc(func(_ context.Context, req weather.Request) (string, error) {
		if req.Query == failing {
			return "", errors.New("unavailable")
		}
		return string(b), nil
	}))
}

func TestRunOnce(t *testing.T) {
	dublin := weather.Location{Latitude: 53.3478, Longitude: 6.2597, City: "Dublin", Country: "IE"}
	broken := weather.Location{Latitude: 1, Longitude: 1}

	s := New([]weather.Location{dublin, broken}, 0, fixtureClient(t, broken), nil)

	var seen []weather.Digest
	s.OnDigest = func(dg weather.Digest) { seen = append(seen, dg) }

	digests, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(digests) != 1 {
		t.Fatalf("len(digests) = %d, want 1", len(digests))
	}
	if digests[0].Location != dublin {
		t.Errorf("Location = %+v", digests[0].Location)
	}
	if len(digests[0].Days) != 5 {
		t.Errorf("len(Days) = %d, want 5", len(digests[0].Days))
	}
	if len(seen) != 1 {
		t.Errorf("OnDigest called %d times, want 1", len(seen))
	}
}

func TestStart_NoLocations(t *testing.T) {
	s := New(nil, 0, fixtureClient(t, weather.Location{}), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}
