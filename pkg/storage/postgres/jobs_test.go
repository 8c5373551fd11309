package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"

	"ipms/internal/contact"
	"ipms/pkg/domain"
	"ipms/pkg/storage"
	"ipms/pkg/storage/postgres"
)

func notifyArgs() contact.NotifyArgs {
	return contact.NewNotifyArgs(domain.Submission{
		ID:        domain.SubmissionID(uuid.New()),
		Name:      "Grace",
		Email:     "grace@ipms.example",
		Message:   "Do you plan audits?",
		CreatedAt: time.Now(),
	}, 3)
}

func TestPgSQL_AddJob(t *testing.T) {
	pg := setupTestDB(t)
	ctx := context.Background()

	t.Run("inside a tx", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		args := notifyArgs()
		inserted, err := tx.AddJob(ctx, args, nil)
		require.NoError(t, err)
		require.True(t, inserted)

		rivertest.RequireInsertedTx[*riverdatabasesql.Driver](ctx, t,
			tx.(*postgres.PgSQL).DB.(*sql.Tx), &contact.NotifyArgs{}, nil)
	})

	t.Run("outside a tx", func(t *testing.T) {
		args := notifyArgs()
		inserted, err := pg.AddJob(ctx, args, nil)
		require.NoError(t, err)
		require.True(t, inserted)

		rivertest.RequireInserted[*riverdatabasesql.Driver](ctx, t,
			riverdatabasesql.New(pg.DB.(*sql.DB)), &contact.NotifyArgs{}, nil)
	})

	t.Run("duplicate submission is skipped", func(t *testing.T) {
		args := notifyArgs()
		inserted, err := pg.AddJob(ctx, args, nil)
		require.NoError(t, err)
		require.True(t, inserted)

		inserted, err = pg.AddJob(ctx, args, nil)
		require.NoError(t, err)
		require.False(t, inserted)
	})

	t.Run("job and row commit together", func(t *testing.T) {
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			stored, err := s.StoreSubmission(ctx, submission("job@ipms.example"))
			if err != nil {
				return err //nolint: wrapcheck
			}
			args := contact.NewNotifyArgs(*stored, 3)
			_, err = s.AddJob(ctx, args, nil)

			return err //nolint: wrapcheck
		})
		require.NoError(t, err)
		require.Equal(t, 1, countByEmail(t, pg.DB, "job@ipms.example"))
	})
}
