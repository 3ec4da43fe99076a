package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	// maxTxAttempts bounds retries of a transaction aborted by serialization or deadlock.
	maxTxAttempts = 3

	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runInTx runs fn in a serializable transaction, retrying when Postgres aborts it
// with a serialization failure or deadlock. fn must be safe to re-run.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = execTx(ctx, db, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	return err
}

func execTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isRetryable(err error) bool {
	switch pqCode(err) {
	case pqSerializationFailure, pqDeadlockDetected:
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}
