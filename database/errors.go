package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/kbukum/datafixture/errors"
)

// PostgreSQL SQLSTATE codes the loader distinguishes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgUndefinedTable      = "42P01"
	pgDeadlockDetected    = "40P01"
	pgLockNotAvailable    = "55P03"
)

// IsConnectionError checks if a database error is a connection error
// that might be resolved by retrying.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"no route to host",
		"network is unreachable",
		"connection closed",
		"connection lost",
		"driver: bad connection",
		"invalid connection",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// IsRetryableError determines if a database error should trigger a retry.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if IsConnectionError(err) {
		return true
	}
	if code := pgCode(err); code == pgDeadlockDetected || code == pgLockNotAvailable {
		return true
	}

	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"deadlock",
		"database is locked",
		"lock timeout",
		"too many connections",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// IsDuplicateError checks if the error is a unique-key violation.
func IsDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyError checks if the error is a foreign-key violation.
func IsForeignKeyError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsMissingTableError checks if the error reports an unknown table.
func IsMissingTableError(err error) bool {
	if pgCode(err) == pgUndefinedTable {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "no such table")
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// FromDatabase converts a database error to an AppError.
// It translates GORM and driver-specific errors to readable messages.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	switch {
	case IsDuplicateError(err):
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			fmt.Sprintf("A %s row with the same key already exists.", resource)).WithCause(err)
	case IsForeignKeyError(err):
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			fmt.Sprintf("A %s row references a missing or still-referenced row.", resource)).WithCause(err)
	case IsMissingTableError(err):
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			fmt.Sprintf("Table %s does not exist.", resource)).WithCause(err)
	case IsConnectionError(err):
		return (&apperrors.AppError{
			Code:      apperrors.ErrCodeConnectionFailed,
			Message:   "Database is temporarily unavailable. Please try again.",
			Retryable: true,
		}).WithCause(err)
	case IsRetryableError(err):
		return (&apperrors.AppError{
			Code:      apperrors.ErrCodeDatabaseError,
			Message:   "Database operation failed. Please try again.",
			Retryable: true,
		}).WithCause(err)
	}

	return apperrors.DatabaseError(err)
}
