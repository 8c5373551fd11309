package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"ipms/pkg/domain"
	"ipms/pkg/storage"
)

const (
	submissionsTable = "contact_submissions"
)

// StoreSubmission inserts a single submission and returns it with the
// generated id and created_at.
func (p *PgSQL) StoreSubmission(ctx context.Context, submission domain.Submission) (*domain.Submission, error) {
	var row PgSubmission
	row.FromDomain(submission)

	var stored PgSubmission
	found, err := p.Builder.Insert(submissionsTable).
		Rows(row).
		Returning(&PgSubmission{}).
		Executor().ScanStructContext(ctx, &stored)
	if err != nil {
		return nil, fmt.Errorf("could not store submission into pg: %w", asRemoteError(err))
	}
	if !found {
		return nil, &storage.RemoteError{Message: "insert returned no row"}
	}

	return stored.ToDomain(), nil
}

// Submissions returns a page of submissions after the optional cursor.
// Results are ordered by created_at DESC, id DESC.
func (p *PgSQL) Submissions(ctx context.Context, cursor storage.Cursor, limit uint) (storage.SubmissionPage, error) {
	var w []goqu.Expression
	if !cursor.IsZero() {
		// a zero id sorts first, so a bare timestamp still means created_at < cursor
		w = append(w, goqu.L("(created_at, id) < (?, ?)", cursor.CreatedAt, uuid.UUID(cursor.ID).String()))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(submissionsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgSubmission
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.SubmissionPage{}, fmt.Errorf("could not fetch submissions from pg: %w", asRemoteError(err))
	}

	out := pgSubmissionsToDomain(rows)

	var nextCursor *storage.Cursor
	if uint(len(out)) > limit {
		out = out[:limit]
		if limit > 0 {
			c := storage.CursorOf(out[len(out)-1])
			nextCursor = &c
		}
	}

	return storage.SubmissionPage{
		Submissions: out,
		NextCursor:  nextCursor,
	}, nil
}
