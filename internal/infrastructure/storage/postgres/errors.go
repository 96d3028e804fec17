package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"fowlpos/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes the settlement path cares about.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateUniqueViolation      = "23505"
	sqlstateForeignKeyViolation  = "23503"
	sqlstateCheckViolation       = "23514"
)

// MapError translates low-level pgx errors into AppErrors.
//
// Serialization failures and deadlocks are transient: the caller lost a
// race and may safely retry the whole operation. Unique violations on
// generated values (receipt numbers) are treated the same way. Integrity
// violations signal a bug and stay internal.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream
	if apperror.IsAppError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case IsSerializationFailure(err):
			return apperror.NewSerialization(err)
		case IsUniqueViolation(err):
			return apperror.NewDuplicate(entity, pgErr.ConstraintName, "").WithCause(err)
		case pgErr.Code == sqlstateForeignKeyViolation, pgErr.Code == sqlstateCheckViolation:
			return apperror.NewIntegrity(err)
		}
	}

	return apperror.NewInternal(err)
}

// IsSerializationFailure reports whether err is SQLSTATE 40001 or 40P01.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstateSerializationFailure || pgErr.Code == sqlstateDeadlockDetected
	}
	return false
}

// IsUniqueViolation reports whether err is SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstateUniqueViolation
	}
	return false
}
