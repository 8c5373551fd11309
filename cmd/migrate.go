package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ipms"
	"ipms/internal/config"
	"ipms/pkg/logger"
)

// migrateCommand constructs the 'migrate' subcommand that creates the
// contact_submissions table with goose and the job tables with rivermigrate.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Backend != config.BackendPostgres {
				return fmt.Errorf("migrate requires the %s backend, got %s", config.BackendPostgres, cfg.Backend)
			}

			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			db, ok := strg.DB.(*sql.DB)
			if !ok {
				return fmt.Errorf("unexpected database handle %T", strg.DB)
			}

			goose.SetBaseFS(ipms.Migrations)
			if err := goose.SetDialect("postgres"); err != nil {
				logger.Fatal(ctx, "could not set goose dialect to postgres", zap.Error(err))
			}
			if err := goose.Up(db, "migrations"); err != nil {
				logger.Fatal(ctx, "could not migrate pgsql", zap.Error(err))
			}

			// migrate riverqueue
			migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
			if err != nil {
				logger.Fatal(ctx, "could not create river queue migrator", zap.Error(err))
			}
			res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
			if err != nil {
				logger.Fatal(ctx, "could not migrate river queue", zap.Error(err))
			}
			logger.Info(ctx, "database migrated", zap.Int("riverVersionsApplied", len(res.Versions)))

			return nil
		},
	}

	return cmd
}
