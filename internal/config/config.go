package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/yrno-forecast/internal/weather"
)

type AppConfig struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level
	Port     string `validate:"required,numeric"`

	// yr.no locationforecast settings.
	APIVersion     string        `validate:"required"`
	BaseURL        string        `validate:"required,url"`
	UserAgent      string        `validate:"required"`
	RequestTimeout time.Duration `validate:"gt=0"`

	// SummaryInterval controls how often the five-day summary job runs.
	SummaryInterval time.Duration `validate:"gte=1m"`

	// Locations to summarise. Entries without coordinates are geocoded.
	Locations      []weather.Location `validate:"dive"`
	GeocoderAPIKey string
}

var validate = validator.New()

// Load reads configuration from .env and the environment with sensible
// defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "err", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.APIVersion = getenvDefault("YRNO_API_VERSION", weather.DefaultVersion)
	cfg.BaseURL = getenvDefault("YRNO_BASE_URL", "https://api.met.no/weatherapi/locationforecast")
	cfg.UserAgent = getenvDefault("YRNO_USER_AGENT", "yrno-forecast/1.0 github.com/i474232898/yrno-forecast")

	timeoutMS, err := getenvInt("REQUEST_TIMEOUT", 15000)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutMS) * time.Millisecond

	interval, err := time.ParseDuration(getenvDefault("SUMMARY_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_INTERVAL: %w", err)
	}
	cfg.SummaryInterval = interval

	locs, err := loadLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadLocations reads WEATHER_LOCATIONS ("lat,lon[,msl];...") followed by
// the comma separated WEATHER_LOCATION_CITY / WEATHER_LOCATION_COUNTRY
// pairs.
func loadLocations() ([]weather.Location, error) {
	var locs []weather.Location

	if raw := strings.TrimSpace(os.Getenv("WEATHER_LOCATIONS")); raw != "" {
		for _, entry := range strings.Split(raw, ";") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			loc, err := parsePoint(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid WEATHER_LOCATIONS entry %q: %w", entry, err)
			}
			locs = append(locs, loc)
		}
	}

	city := strings.TrimSpace(os.Getenv("WEATHER_LOCATION_CITY"))
	if city == "" {
		return locs, nil
	}
	cities := strings.Split(city, ",")
	countries := strings.Split(os.Getenv("WEATHER_LOCATION_COUNTRY"), ",")
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}
	for i := range cities {
		locs = append(locs, weather.Location{
			City:    strings.TrimSpace(cities[i]),
			Country: strings.TrimSpace(countries[i]),
		})
	}
	return locs, nil
}

func parsePoint(s string) (weather.Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return weather.Location{}, errors.New("want lat,lon or lat,lon,msl")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("longitude: %w", err)
	}
	loc := weather.Location{Latitude: lat, Longitude: lon}

	if len(parts) == 3 {
		msl, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return weather.Location{}, fmt.Errorf("altitude: %w", err)
		}
		loc.Altitude = &msl
	}
	return loc, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
