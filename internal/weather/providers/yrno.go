package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/yrno-forecast/internal/weather"
)

const (
	// DefaultBaseURL is the locationforecast endpoint without version.
	DefaultBaseURL = "https://api.met.no/weatherapi/locationforecast"
	// DefaultUserAgent identifies the client to met.no, which rejects
	// anonymous requests.
	DefaultUserAgent = "yrno-forecast/1.0 github.com/i474232898/yrno-forecast"
)

// YrNoSource fetches locationforecast XML from api.met.no.
type YrNoSource struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

// YrNoConfig configures a YrNoSource. Zero fields take defaults.
type YrNoConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Breaker   BreakerSettings
}

// NewYrNoSource creates a source. A nil client gets one with cfg.Timeout.
func NewYrNoSource(client *http.Client, cfg YrNoConfig) *YrNoSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Breaker == (BreakerSettings{}) {
		cfg.Breaker = BreakerSettings{
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &YrNoSource{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    client,
		circuit:   newBreaker("yrno", cfg.Breaker),
	}
}

// Locationforecast implements weather.Source.
func (s *YrNoSource) Locationforecast(ctx context.Context, req weather.Request) (string, error) {
	if req.Version == "" {
		return "", fmt.Errorf("yrno: version is required")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(req), nil)
		if err != nil {
			return nil, err
		}
		r.Header.Set("User-Agent", s.userAgent)
		r.Header.Set("Accept", "application/xml")
		return r, nil
	}

	resp, err := doRequest(ctx, s.client, s.circuit, buildRequest)
	if err != nil {
		return "", fmt.Errorf("yrno: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("yrno: read body: %w", err)
	}
	return string(body), nil
}

func (s *YrNoSource) endpoint(req weather.Request) string {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(req.Query.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(req.Query.Longitude, 'f', -1, 64))
	if req.Query.Altitude != nil {
		values.Set("msl", strconv.Itoa(*req.Query.Altitude))
	}
	return fmt.Sprintf("%s/%s/?%s", s.baseURL, url.PathEscape(req.Version), values.Encode())
}
