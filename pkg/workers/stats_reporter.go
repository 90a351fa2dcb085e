package workers

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/dskvich/catpic-telegram-bot/pkg/logger"
)

type SourceHealthReporter interface {
	HealthSnapshot() map[string]string
}

type SeenStatsProvider interface {
	Stats(ctx context.Context) (map[int64]int, error)
}

// statsReporter periodically logs breaker state and seen-set sizes.
// The seen set grows without bound for the process lifetime, so the
// numbers give the operator an early warning instead of an eviction
// policy.
type statsReporter struct {
	schedule string
	router   SourceHealthReporter
	tracker  SeenStatsProvider
}

func NewStatsReporter(
	schedule string,
	router SourceHealthReporter,
	tracker SeenStatsProvider,
) (*statsReporter, error) {
	return &statsReporter{
		schedule: schedule,
		router:   router,
		tracker:  tracker,
	}, nil
}

func (s *statsReporter) Name() string { return "stats_reporter_worker" }

func (s *statsReporter) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", s.Name(), "schedule", s.schedule)
	defer slog.Info("Worker stopped", "name", s.Name())

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.report(ctx) }); err != nil {
		return err
	}
	c.Start()

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

func (s *statsReporter) report(ctx context.Context) {
	for sourceID, status := range s.router.HealthSnapshot() {
		slog.InfoContext(ctx, "Source health", "source", sourceID, "status", status)
	}

	stats, err := s.tracker.Stats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Fetching seen image stats", logger.Err(err))
		return
	}

	var total, maxPerUser int
	for _, count := range stats {
		total += count
		if count > maxPerUser {
			maxPerUser = count
		}
	}
	slog.InfoContext(ctx, "Seen image stats", "users", len(stats), "totalSeen", total, "maxPerUser", maxPerUser)
}
