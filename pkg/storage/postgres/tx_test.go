package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ipms/pkg/domain"
	"ipms/pkg/storage"
	"ipms/pkg/storage/postgres"
)

func countByEmail(t *testing.T, db postgres.DB, email string) int {
	t.Helper()

	var c int
	row := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM contact_submissions WHERE email = $1`, email)
	require.NoError(t, row.Scan(&c))

	return c
}

func submission(email string) domain.Submission {
	return domain.Submission{Name: "Grace", Email: email, Message: "Do you plan audits?"}
}

func TestPgSQL_Transactions(t *testing.T) {
	pg := setupTestDB(t)
	ctx := context.Background()

	t.Run("commit and rollback outside a tx", func(t *testing.T) {
		require.ErrorIs(t, pg.Commit(), storage.ErrNotInTx)
		require.ErrorIs(t, pg.Rollback(), storage.ErrNotInTx)
	})

	t.Run("nested begin", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		inner, ok := tx.(*postgres.PgSQL)
		require.True(t, ok)
		require.IsType(t, &sql.Tx{}, inner.DB)
		require.Same(t, pg.Pool, inner.Pool)

		_, err = inner.Begin(ctx)
		require.ErrorIs(t, err, storage.ErrAlreadyInTx)
	})

	t.Run("commit makes rows visible", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)

		_, err = tx.StoreSubmission(ctx, submission("commit@ipms.example"))
		require.NoError(t, err)
		require.Equal(t, 0, countByEmail(t, pg.DB, "commit@ipms.example"))

		require.NoError(t, tx.Commit())
		require.Equal(t, 1, countByEmail(t, pg.DB, "commit@ipms.example"))
	})

	t.Run("rollback discards rows", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)

		_, err = tx.StoreSubmission(ctx, submission("rollback@ipms.example"))
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		require.Equal(t, 0, countByEmail(t, pg.DB, "rollback@ipms.example"))
	})

	t.Run("WithTx", func(t *testing.T) {
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			_, err := s.StoreSubmission(ctx, submission("withtx@ipms.example"))

			return err //nolint: wrapcheck
		})
		require.NoError(t, err)
		require.Equal(t, 1, countByEmail(t, pg.DB, "withtx@ipms.example"))

		boom := errors.New("boom")
		err = pg.WithTx(ctx, func(s storage.AllStorage) error {
			_, _ = s.StoreSubmission(ctx, submission("withtx-err@ipms.example"))

			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 0, countByEmail(t, pg.DB, "withtx-err@ipms.example"))

		require.Panics(t, func() {
			_ = pg.WithTx(ctx, func(s storage.AllStorage) error {
				_, _ = s.StoreSubmission(ctx, submission("withtx-panic@ipms.example"))

				panic("boom")
			})
		})
		require.Equal(t, 0, countByEmail(t, pg.DB, "withtx-panic@ipms.example"))
	})
}
