package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ipms/internal/api"
	"ipms/internal/api/handler/v1handler"
	"ipms/internal/config"
	"ipms/internal/contact"
	"ipms/internal/content"
	"ipms/internal/worker"
	"ipms/pkg/controller"
	"ipms/pkg/logger"
	"ipms/pkg/metrics"
	"ipms/pkg/notifier"
	"ipms/pkg/notifier/webhook"
)

// limiterIdleTTL is how long a client IP may stay silent before its limiter is dropped.
const limiterIdleTTL = 10 * time.Minute

// runServer serves until ctx is done, then shuts the server down within
// shutdownTimeout. A listener failure is returned.
func runServer(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not start webserver: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info(ctx, "stopping webserver...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not stop webserver: %w", err)
	}

	return nil
}

// setupWorker starts the notification worker. Without a webhook URL jobs
// complete without delivering anything.
func setupWorker(ctx context.Context, cfg *config.Config, b backend) func(ctx context.Context) {
	var client notifier.Client
	if cfg.Worker.WebhookURL != "" {
		hook, err := webhook.New(&http.Client{Timeout: cfg.Worker.WebhookTimeout},
			cfg.Worker.WebhookURL, cfg.Worker.WebhookRate)
		if err != nil {
			logger.Fatal(ctx, "could not create webhook notifier", zap.Error(err))
		}
		client = hook
	} else {
		logger.Warn(ctx, "no webhook URL configured, notifications will not be delivered")
	}

	riverClient, err := worker.Start(ctx, b.pg.Pool, client, worker.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not start worker", zap.Error(err))
	}

	return func(ctx context.Context) {
		stopRiver(ctx, riverClient)
	}
}

func stopRiver(ctx context.Context, riverClient *river.Client[pgx.Tx]) {
	logger.Info(ctx, "stopping worker...")
	if err := riverClient.Stop(ctx); err != nil {
		logger.Error(ctx, "could not stop worker", zap.Error(err))
	}
}

// pruneLimiters drops idle per-IP limiters until ctx is done.
func pruneLimiters(ctx context.Context, limiter *controller.IPRateLimiter) {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := limiter.Prune(now.Add(-limiterIdleTTL)); n > 0 {
				logger.Debug(ctx, "pruned idle rate limiters", zap.Int("count", n))
			}
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			landing, err := content.Load(cfg.Content.Path)
			if err != nil {
				logger.Fatal(ctx, "could not load landing content", zap.Error(err))
			}

			registry := metrics.NewRegistry()
			meterProvider, err := metrics.NewMeterProvider(registry)
			if err != nil {
				logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
			}
			tracerProvider := metrics.NewTracerProvider(logger.Get(ctx), cfg.Tracing.SampleRatio)
			otel.SetTracerProvider(tracerProvider)

			b := getBackend(ctx, cfg)
			defer b.close()

			service, err := contact.New(contact.Deps{
				Store:  b.writer,
				Lister: b.lister,
				Tx:     b.tx,
				Meter:  meterProvider.Meter("ipms"),
				Tracer: tracerProvider.Tracer("ipms"),
			}, contact.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not create contact service", zap.Error(err))
			}

			stopWorker := func(context.Context) {}
			if b.pg != nil {
				stopWorker = setupWorker(ctx, cfg, b)
			} else if cfg.Contact.Notify {
				logger.Warn(ctx, "notifications require the postgres backend and are disabled")
			}

			limiter := controller.NewIPRateLimiter(cfg.HTTP.SubmitRate, cfg.HTTP.SubmitBurst)
			server, err := api.NewServer(api.Deps{
				Deps: v1handler.Deps{
					Contact: service,
					Content: landing,
				},
				Registry: registry,
				Limiter:  limiter,
			}, api.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not create webserver", zap.Error(err))
			}

			// runs until interrupted or the listener fails
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				pruneLimiters(gctx, limiter)

				return nil
			})
			g.Go(func() error {
				return runServer(gctx, server, cfg.GracefulShutdownTimeout)
			})
			if err := g.Wait(); err != nil {
				logger.Error(ctx, "webserver failed", zap.Error(err))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWorker(shutdownCtx)
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "could not stop tracer provider", zap.Error(err))
			}
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "could not stop meter provider", zap.Error(err))
			}
		},
	}

	return cmd
}
