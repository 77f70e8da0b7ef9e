package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes we map onto the taxonomy.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("failed to %s %s", operation, entity)

	if cause == nil {
		return NewInternalError(details)
	}

	// Already classified further down the stack.
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	if errors.Is(cause, gorm.ErrRecordNotFound) {
		e := NewNotFoundError(fmt.Sprintf("%s not found", entity))
		e.Cause = cause
		return e
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			e := NewConflictError(fmt.Sprintf("%s already exists", entity))
			e.Cause = cause
			return e
		case pgForeignKeyViolation:
			e := NewBadRequestError(fmt.Sprintf("invalid reference in %s", entity))
			e.Cause = cause
			return e
		case pgSerializationFailure, pgDeadlockDetected:
			e := NewConflictError(fmt.Sprintf("concurrent update of %s, retry", entity))
			e.Cause = cause
			return e
		}
	}

	// sqlite (dev and tests) only surfaces messages
	errStr := cause.Error()
	switch {
	case strings.Contains(errStr, "UNIQUE constraint failed"), strings.Contains(errStr, "duplicate key"):
		e := NewConflictError(fmt.Sprintf("%s already exists", entity))
		e.Cause = cause
		return e
	case strings.Contains(errStr, "FOREIGN KEY constraint failed"):
		e := NewBadRequestError(fmt.Sprintf("invalid reference in %s", entity))
		e.Cause = cause
		return e
	case strings.Contains(errStr, "database is locked"):
		e := NewConflictError(fmt.Sprintf("concurrent update of %s, retry", entity))
		e.Cause = cause
		return e
	}

	return NewInternalErrorWithCause(details, cause)
}
