package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/irurudev/nexus-pos/internal/apierror"
)

// Postgres SQLSTATE codes surfaced by the gorm/pgx stack.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// TranslateError maps low-level store failures onto the service error
// taxonomy: bounded lock waits and deadlocks become the retryable
// ErrConcurrencyTimeout, anything else is wrapped as a StorageError.
// Typed business errors pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected:
			return apierror.ErrConcurrencyTimeout
		}
	}
	var vErr *apierror.ValidationError
	var sErr *apierror.StorageError
	if errors.As(err, &vErr) || errors.As(err, &sErr) ||
		errors.Is(err, apierror.ErrDuplicateInvoiceID) ||
		errors.Is(err, apierror.ErrConcurrencyTimeout) {
		return err
	}
	return apierror.NewStorage(err)
}
