package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ipms/pkg/domain"
	"ipms/pkg/storage"
)

func TestPgSQL_StoreSubmission(t *testing.T) {
	t.Parallel()

	pgSQL := setupTestDB(t)
	ctx := context.Background()

	t.Run("store returns generated fields", func(t *testing.T) {
		res, err := pgSQL.StoreSubmission(ctx, domain.Submission{
			Name:    "Jane",
			Email:   "jane@x.co",
			Message: "hello",
		})
		require.NoError(t, err)
		require.NotNil(t, res)
		require.False(t, res.ID.IsZero())
		require.False(t, res.CreatedAt.IsZero())
		require.Equal(t, "Jane", res.Name)
		require.Equal(t, "jane@x.co", res.Email)
		require.Equal(t, "hello", res.Message)
	})

	t.Run("message at the limit is accepted", func(t *testing.T) {
		_, err := pgSQL.StoreSubmission(ctx, domain.Submission{
			Name:    "Jane",
			Email:   "jane@x.co",
			Message: strings.Repeat("a", 2000),
		})
		require.NoError(t, err)
	})

	t.Run("check constraint violation is a remote error", func(t *testing.T) {
		_, err := pgSQL.StoreSubmission(ctx, domain.Submission{
			Name:    "Jane",
			Email:   "jane@x.co",
			Message: strings.Repeat("a", 2001),
		})
		require.Error(t, err)
		require.ErrorIs(t, err, storage.ErrRemote)

		var remote *storage.RemoteError
		require.True(t, errors.As(err, &remote))
		require.Equal(t, "23514", remote.Code)
	})
}

func TestPgSQL_Submissions_Pagination(t *testing.T) {
	t.Parallel()

	pgSQL := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := pgSQL.StoreSubmission(ctx, domain.Submission{Name: name, Email: name + "@x.co", Message: "hi"})
		require.NoError(t, err)
		// created_at has microsecond precision; keep rows strictly ordered
		time.Sleep(5 * time.Millisecond)
	}

	first, err := pgSQL.Submissions(ctx, storage.Cursor{}, 2)
	require.NoError(t, err)
	require.Len(t, first.Submissions, 2)
	require.Equal(t, "c", first.Submissions[0].Name)
	require.Equal(t, "b", first.Submissions[1].Name)
	require.NotNil(t, first.NextCursor)

	second, err := pgSQL.Submissions(ctx, *first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Submissions, 1)
	require.Equal(t, "a", second.Submissions[0].Name)
	require.Nil(t, second.NextCursor)
}

func TestPgSQL_Submissions_SameCreatedAtAcrossPages(t *testing.T) {
	t.Parallel()

	pgSQL := setupTestDB(t)
	ctx := context.Background()

	// now() is fixed for a transaction, so these rows share created_at
	err := pgSQL.WithTx(ctx, func(tx storage.AllStorage) error {
		for _, name := range []string{"a", "b", "c", "d", "e"} {
			if _, err := tx.StoreSubmission(ctx, domain.Submission{Name: name, Email: name + "@x.co", Message: "hi"}); err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)

	seen := map[domain.SubmissionID]bool{}
	var cursor storage.Cursor
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)

		page, err := pgSQL.Submissions(ctx, cursor, 2)
		require.NoError(t, err)
		for _, s := range page.Submissions {
			require.False(t, seen[s.ID], "row listed twice")
			seen[s.ID] = true
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	require.Len(t, seen, 5)

	// a bare timestamp cursor selects strictly older rows
	page, err := pgSQL.Submissions(ctx, storage.Cursor{}, 1)
	require.NoError(t, err)
	older, err := pgSQL.Submissions(ctx, storage.Cursor{CreatedAt: page.Submissions[0].CreatedAt}, 10)
	require.NoError(t, err)
	require.Empty(t, older.Submissions)
}

func TestPgSQL_StoreSubmission_WithTxRollback(t *testing.T) {
	t.Parallel()

	pgSQL := setupTestDB(t)
	ctx := context.Background()

	err := pgSQL.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.StoreSubmission(ctx, domain.Submission{Name: "x", Email: "x@x.co", Message: "m"}); err != nil {
			return err
		}

		return errors.New("abort")
	})
	require.Error(t, err)

	page, err := pgSQL.Submissions(ctx, storage.Cursor{}, 10)
	require.NoError(t, err)
	require.Empty(t, page.Submissions)
}
