// Package worker runs the River client that processes background jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"

	"ipms/internal/config"
	"ipms/pkg/logger"
	"ipms/pkg/notifier"
)

// Options configure the job runner.
type Options struct {
	// MaxWorkers is the number of jobs processed concurrently.
	MaxWorkers int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxWorkers: cfg.Worker.MaxWorkers}
}

// Start registers the workers and starts a River client on dbPool. A nil
// client makes notification jobs complete without delivering anything.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	client notifier.Client,
	options Options) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewNotifyWorker(client))

	maxWorkers := options.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
