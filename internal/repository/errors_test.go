package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/repository"
)

func TestTranslateError_LockTimeoutIsRetryable(t *testing.T) {
	err := repository.TranslateError(&pgconn.PgError{Code: "55P03"})
	assert.ErrorIs(t, err, apierror.ErrConcurrencyTimeout)
}

func TestTranslateError_DeadlockIsRetryable(t *testing.T) {
	err := repository.TranslateError(&pgconn.PgError{Code: "40P01"})
	assert.ErrorIs(t, err, apierror.ErrConcurrencyTimeout)
}

func TestTranslateError_WrappedPgErrorStillTranslates(t *testing.T) {
	wrapped := fmt.Errorf("lock sale items: %w", &pgconn.PgError{Code: "55P03"})
	assert.ErrorIs(t, repository.TranslateError(wrapped), apierror.ErrConcurrencyTimeout)
}

func TestTranslateError_OtherPgErrorBecomesStorage(t *testing.T) {
	err := repository.TranslateError(&pgconn.PgError{Code: "23503"}) // fk violation
	var sErr *apierror.StorageError
	require.ErrorAs(t, err, &sErr)
	assert.NotErrorIs(t, err, apierror.ErrConcurrencyTimeout)
}

func TestTranslateError_BusinessErrorsPassThrough(t *testing.T) {
	vErr := apierror.FieldError("qty", "must be positive")
	assert.Equal(t, error(vErr), repository.TranslateError(vErr))
	assert.ErrorIs(t, repository.TranslateError(apierror.ErrDuplicateInvoiceID), apierror.ErrDuplicateInvoiceID)
}

func TestTranslateError_Nil(t *testing.T) {
	assert.NoError(t, repository.TranslateError(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, repository.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, repository.IsUniqueViolation(fmt.Errorf("insert sale: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, repository.IsUniqueViolation(&pgconn.PgError{Code: "55P03"}))
	assert.False(t, repository.IsUniqueViolation(errors.New("plain")))
}
