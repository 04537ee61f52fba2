package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	httpapi "github.com/i474232898/yrno-forecast/internal/api/http"
	"github.com/i474232898/yrno-forecast/internal/config"
	"github.com/i474232898/yrno-forecast/internal/logging"
	"github.com/i474232898/yrno-forecast/internal/scheduler"
	"github.com/i474232898/yrno-forecast/internal/weather"
	"github.com/i474232898/yrno-forecast/internal/weather/providers"
)

var version = "dev"

const appName = "yrno-forecast"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	log := logging.New(*cfg, version, appName)
	slog.SetDefault(log)

	// Shared HTTP client for outbound calls to met.no.
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
	}

	source := providers.NewYrNoSource(httpClient, providers.YrNoConfig{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
	})

	client := weather.NewClient(source,
		weather.WithVersion(cfg.APIVersion),
		weather.WithTimeout(cfg.RequestTimeout),
		weather.WithLogger(log),
	)

	locations := resolveLocations(cfg, log)

	// Scheduler that periodically logs a five-day digest per location.
	sched := scheduler.New(locations, cfg.SummaryInterval, client, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.RequestTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
			"version": cfg.APIVersion,
		})
	})

	httpapi.RegisterRoutes(app, client)

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
}

// resolveLocations geocodes configured City/Country entries. Entries that
// cannot be resolved are dropped.
func resolveLocations(cfg *config.AppConfig, log *slog.Logger) []weather.Location {
	geo := providers.NewGeocoder(cfg.GeocoderAPIKey)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	var out []weather.Location
	for _, loc := range cfg.Locations {
		resolved, err := geo.Resolve(ctx, loc)
		if err != nil {
			log.Warn("skipping location", "location", loc.Key(), "err", err)
			continue
		}
		out = append(out, resolved)
	}
	return out
}
