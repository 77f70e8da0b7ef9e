package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApiErrKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    *ApiErr
		kind   error
		status int
		label  string
	}{
		{"unauthenticated", NewUnauthenticatedError("no token"), ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", NewForbiddenError("not yours"), ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", NewNotFoundError("missing"), ErrNotFound, http.StatusNotFound, "not_found"},
		{"bad request", NewBadRequestError("bad"), ErrBadRequest, http.StatusBadRequest, "bad_request"},
		{"conflict", NewConflictError("race"), ErrConflict, http.StatusConflict, "conflict"},
		{"internal", NewInternalError("boom"), ErrInternal, http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.label, tt.err.Kind())
			assert.Equal(t, tt.label, KindOf(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, "internal", KindOf(errors.New("plain")))
}

func TestFieldErrors(t *testing.T) {
	err := NewInvalidFieldError("bio", "must be at most 200 characters")
	assert.True(t, IsBadRequest(err))
	assert.Equal(t, "bio", err.Field)
	assert.Equal(t, "invalid field: bio must be at most 200 characters", err.Error())

	missing := NewMissingRequiredFieldError("title")
	assert.Equal(t, "title", missing.Field)
	assert.Equal(t, "missing required field", missing.Message())
}

func TestCauseStaysReachable(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalErrorWithCause("failed to list posts", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsInternal(err))
	assert.Contains(t, err.GetFullError(), "connection refused")
	assert.NotContains(t, err.Message(), "connection refused")
}

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		check func(error) bool
	}{
		{"nil cause", nil, IsInternal},
		{"record not found", gorm.ErrRecordNotFound, IsNotFound},
		{"wrapped record not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), IsNotFound},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, IsConflict},
		{"pg foreign key violation", &pgconn.PgError{Code: "23503"}, IsBadRequest},
		{"pg serialization failure", &pgconn.PgError{Code: "40001"}, IsConflict},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, IsConflict},
		{"pg other", &pgconn.PgError{Code: "42P01"}, IsInternal},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), IsConflict},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), IsBadRequest},
		{"sqlite locked", errors.New("database is locked (5) (SQLITE_BUSY)"), IsConflict},
		{"unknown", errors.New("disk I/O error"), IsInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "user", tt.cause)
			require.NotNil(t, err)
			assert.True(t, tt.check(err), "got kind %s", err.Kind())
		})
	}
}

func TestNewDatabaseErrorKeepsClassifiedErrors(t *testing.T) {
	forbidden := NewForbiddenError("only the author can edit this post")
	err := NewDatabaseError("update", "blog post", fmt.Errorf("tx: %w", forbidden))
	assert.Same(t, forbidden, err)
}

func TestNotFoundMessageNamesEntity(t *testing.T) {
	err := NewDatabaseError("find", "blog post", gorm.ErrRecordNotFound)
	assert.Equal(t, "blog post not found", err.Message())
}
