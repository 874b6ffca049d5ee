package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lcree/backend/internal/domain/shared"
)

// Transient Postgres locking failures that abort the transaction but are
// safe to retry as a whole.
const (
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

// translateLockError maps lock-wait timeouts and deadlocks onto the
// domain's retry-safe LockTimeout so callers see a transient error instead
// of an opaque driver failure.
func translateLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected:
			return shared.ErrLockTimeout
		}
	}
	return err
}
