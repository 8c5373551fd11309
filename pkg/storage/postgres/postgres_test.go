package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ipms"
	"ipms/pkg/storage/postgres"
)

const (
	testUser = "postgres"
	// the password contains URL-reserved characters on purpose
	testPassword = "p@ss:w/rd"
	testDB       = "ipms"
)

func startPostgres(ctx context.Context, t *testing.T) (string, int) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       testDB,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "could not start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return host, port.Int()
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(ipms.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}
	provider, err := goose.NewProvider(database.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("could not create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return fmt.Errorf("could not create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("could not migrate river: %w", err)
	}

	return nil
}

// setupTestDB starts a fresh postgres, migrates it and returns a storage on it.
func setupTestDB(t *testing.T) *postgres.PgSQL {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres tests need docker")
	}
	ctx := context.Background()

	host, port := startPostgres(ctx, t)

	pgSQL, err := postgres.New(ctx, postgres.Options{
		Username:           testUser,
		Password:           testPassword,
		Host:               host,
		Port:               port,
		Database:           testDB,
		SslMode:            "disable",
		ConnMaxLifetime:    time.Minute,
		ConnMaxIdleTime:    time.Minute,
		MaxOpenConnections: 5,
		MaxIdleConnections: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgSQL.Close() })

	require.NoError(t, migrate(ctx, pgSQL.DB.(*sql.DB)))

	return pgSQL
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := postgres.New(ctx, postgres.Options{
		Username: testUser,
		Password: testPassword,
		Host:     "127.0.0.1",
		Port:     1,
		Database: testDB,
		SslMode:  "disable",
	})
	require.Error(t, err)
}
