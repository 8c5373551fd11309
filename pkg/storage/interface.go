// Package storage defines the persistence interfaces of the contact service.
// Two backends implement them: postgres (direct database access with
// transactions and a job queue) and supabase (a hosted PostgREST endpoint that
// only offers row-level reads and writes).
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage is every capability available inside or outside a transaction.
type AllStorage interface {
	SubmissionStorage
	JobStorage
}

// TxStorage is a storage handle bound to an open transaction. It becomes
// unusable after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Transactor runs a callback inside a transaction, committing when it returns
// nil and rolling back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}

// Storage is a non-transactional handle able to start transactions.
type Storage interface {
	AllStorage
	Transactor

	// Close releases the underlying connection pool.
	Close() error
	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
}
