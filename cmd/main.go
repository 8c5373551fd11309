// Package main provides the CLI entrypoint for the IPMS contact service.
// It wires subcommands (serve, migrate, contact, jwt), loads configuration, and initializes logging.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ipms/internal/config"
	"ipms/pkg/logger"
	"ipms/pkg/storage"
	"ipms/pkg/storage/postgres"
	"ipms/pkg/storage/supabase"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// backend bundles the storage handles a command needs for the configured backend.
type backend struct {
	writer storage.SubmissionWriter
	lister storage.SubmissionLister
	// tx and pg are only set for the postgres backend.
	tx storage.Transactor
	pg *postgres.PgSQL

	close func()
}

// getBackend builds the submission storage selected by cfg.Backend.
// Supabase inserts go through the public key, reads through the service key
// when one is configured.
func getBackend(ctx context.Context, cfg *config.Config) backend {
	if cfg.Backend == config.BackendPostgres {
		pgsql, closeStrg := getPostgres(ctx, cfg)

		return backend{writer: pgsql, lister: pgsql, tx: pgsql, pg: pgsql, close: closeStrg}
	}

	httpClient := &http.Client{Timeout: cfg.Supabase.Timeout}
	options := supabase.Options{
		URL:                  cfg.Supabase.URL,
		APIKey:               cfg.Supabase.APIKey,
		Table:                cfg.Supabase.Table,
		Schema:               cfg.Supabase.Schema,
		ReturnRepresentation: cfg.Supabase.ReturnRepresentation,
	}
	writer, err := supabase.New(httpClient, options)
	if err != nil {
		logger.Fatal(ctx, "could not create supabase client", zap.Error(err))
	}

	b := backend{writer: writer, close: func() {}}
	if cfg.Supabase.ServiceKey != "" {
		options.APIKey = cfg.Supabase.ServiceKey
		lister, err := supabase.New(httpClient, options)
		if err != nil {
			logger.Fatal(ctx, "could not create supabase service client", zap.Error(err))
		}
		b.lister = lister
	}

	return b
}

// main sets up the root Cobra command and registers subcommands. Configuration
// and logging are initialized before any subcommand runs.
func main() {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "ipms",
		Short:         "IPMS landing page contact service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			envFile, _ := cmd.Flags().GetString("env-file")

			if err := config.LoadDotEnv(envFile); err != nil {
				return err //nolint: wrapcheck
			}

			log.Println("loading config ...")
			loaded, err := config.Load(configPath)
			if err != nil {
				return err //nolint: wrapcheck
			}
			if err := loaded.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			*cfg = *loaded

			logger.Setup(cfg.Environment)

			return nil
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file loaded before the config")

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		contactCommand(cfg),
		JWTCommand(cfg),
	)

	err := rootCmd.Execute()
	logger.Sync(ctx)
	if err != nil {
		log.Println(err)
		os.Exit(1) //nolint: gocritic
	}
}
