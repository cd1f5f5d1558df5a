package leave

import (
	"errors"
	"strings"

	leaveerrors "leavehub/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pendingUniqueConstraint = "uq_leave_requests_one_pending"

// mapPersistenceError translates constraint violations into typed errors.
// The partial unique index on (employee_id) WHERE status = 'PENDING' is the
// backstop for the one-pending-request rule under concurrent creations.
func mapPersistenceError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == pendingUniqueConstraint {
			return leaveerrors.ErrPendingRequestExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, pendingUniqueConstraint) {
		return leaveerrors.ErrPendingRequestExists
	}

	return err
}

// isTransient reports whether a persistence error is a concurrency artifact
// worth one retry (serialization failure or deadlock).
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
