package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertype"
)

// AddJob enqueues a River job on the same handle as the rest of p. Inside a
// transaction the job becomes visible on commit, together with the rows
// written next to it. It reports false when River skipped the insert as a
// duplicate of a unique job.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	tx, inTx := p.DB.(*sql.Tx)
	db, _ := p.DB.(*sql.DB)

	// insert-only client: workers run on the pgx pool
	client, err := river.NewClient(riverdatabasesql.New(db), &river.Config{})
	if err != nil {
		return false, fmt.Errorf("could not create river queue client: %w", err)
	}

	var res *rivertype.JobInsertResult
	if inTx {
		res, err = client.InsertTx(ctx, tx, args, opts)
	} else {
		res, err = client.Insert(ctx, args, opts)
	}
	if err != nil {
		return false, fmt.Errorf("could not insert %s job: %w", args.Kind(), err)
	}

	return !res.UniqueSkippedAsDuplicate, nil
}
