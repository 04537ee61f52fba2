package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/yrno-forecast/internal/weather"
)

// Fetcher is the part of weather.Client the job needs.
type Fetcher interface {
	GetWeatherForLocations(ctx context.Context, locs []weather.Location) []weather.Result
}

// Scheduler periodically fetches a five-day summary for the configured
// locations and logs a digest per location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	client    Fetcher
	locations []weather.Location
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger

	// OnDigest, when set, receives every digest produced by a run.
	OnDigest func(weather.Digest)
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, client Fetcher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		locations: locations,
		interval:  interval,
		timeout:   30 * time.Second,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Warn("summary job failed", "err", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce fetches every location and builds its digest. Locations whose
// fetch fails are logged and skipped.
func (s *Scheduler) RunOnce(ctx context.Context) ([]weather.Digest, error) {
	s.logger.Info("running summary job", "locations", len(s.locations))

	results := s.client.GetWeatherForLocations(ctx, s.locations)

	digests := make([]*weather.Digest, len(results))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range results {
		if r.Err != nil {
			s.logger.Warn("fetch failed", "location", r.Location.Key(), "err", r.Err)
			continue
		}
		g.Go(func() error {
			summary, err := r.Forecast.FiveDaySummary(gctx)
			if err != nil {
				return err
			}
			dg := weather.BuildDigest(r.Location, summary)
			digests[i] = &dg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []weather.Digest
	for _, dg := range digests {
		if dg == nil {
			continue
		}
		s.logDigest(*dg)
		if s.OnDigest != nil {
			s.OnDigest(*dg)
		}
		out = append(out, *dg)
	}

	s.logger.Info("completed summary job", "digests", len(out))
	return out, nil
}

func (s *Scheduler) logDigest(dg weather.Digest) {
	for _, d := range dg.Days {
		s.logger.Info("forecast",
			"location", dg.Location.Key(),
			"date", d.Date.Format("2006-01-02"),
			"icon", d.Icon,
			"temperatureC", d.TemperatureC,
			"rain", d.Rain,
			"humidityPct", d.HumidityPct)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
