package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/esologic/folio/internal/logfields"
)

// RunPeriodicRebuild runs rebuild on a fixed interval until ctx is canceled.
// It backs the serve wrapper's rebuild_every setting.
func RunPeriodicRebuild(ctx context.Context, interval time.Duration, rebuild func()) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(rebuild),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule rebuild job: %w", err)
	}

	s.Start()
	slog.Info("Periodic rebuild scheduled", slog.Duration("interval", interval))

	<-ctx.Done()
	if err := s.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown", logfields.Error(err))
	}
	return nil
}
