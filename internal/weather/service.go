package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/yrno-forecast/internal/forecast"
)

// DefaultVersion is the locationforecast API version used when none is
// configured.
const DefaultVersion = "1.9"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 15 * time.Second

var errNoSource = errors.New("no forecast source configured")

// FetchError reports a failed fetch for one location.
type FetchError struct {
	Location Location
	Version  string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("weather: fetch %s (version %s) failed: %v", e.Location.Key(), e.Version, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches locationforecast payloads and turns them into queryable
// forecasts.
type Client struct {
	source  Source
	version string
	timeout time.Duration
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithVersion sets the default API version.
func WithVersion(v string) ClientOption {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithTimeout sets the per-fetch timeout. Zero or negative leaves the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new Client.
func NewClient(source Source, opts ...ClientOption) *Client {
	c := &Client{
		source:  source,
		version: DefaultVersion,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the configured default API version.
func (c *Client) Version() string {
	return c.version
}

// GetWeather fetches the forecast for loc. An optional version overrides
// the client default for this call only. Source failures come back as
// *FetchError, payload failures as *forecast.ParseError.
func (c *Client) GetWeather(ctx context.Context, loc Location, version ...string) (*forecast.LocationForecast, error) {
	v := c.version
	if len(version) > 0 && version[0] != "" {
		v = version[0]
	}

	if c.source == nil {
		return nil, &FetchError{Location: loc, Version: v, Err: errNoSource}
	}

	id := uuid.New()
	logger := c.logger.With("fetch_id", id.String(), "location", loc.Key())
	logger.Debug("fetching locationforecast", "version", v)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	payload, err := c.source.Locationforecast(ctx, Request{Query: loc, Version: v})
	if err != nil {
		logger.Warn("locationforecast fetch failed", "version", v, "err", err)
		return nil, &FetchError{Location: loc, Version: v, Err: err}
	}
	logger.Debug("locationforecast fetched", "bytes", len(payload), "took", time.Since(start))

	f, err := forecast.New(payload, forecast.WithID(id), forecast.WithLogger(c.logger))
	if err != nil {
		logger.Warn("locationforecast payload rejected", "err", err)
		return nil, err
	}
	return f, nil
}

// Result is the outcome of one location in a GetWeatherForLocations call.
type Result struct {
	Location Location
	Forecast *forecast.LocationForecast
	Err      error
}

// GetWeatherForLocations fetches every location concurrently. Results keep
// the order of locs; a failure for one location does not affect the others.
func (c *Client) GetWeatherForLocations(ctx context.Context, locs []Location) []Result {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]Result, len(locs))
		failed  int
	)

	for i, loc := range locs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			f, err := c.GetWeather(ctx, loc)
			results[i] = Result{Location: loc, Forecast: f, Err: err}
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if failed > 0 {
		c.logger.Warn("some locations failed", "failed", failed, "total", len(locs))
	}
	return results
}
