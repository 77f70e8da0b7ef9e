package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind sentinels. Every ApiErr carries exactly one of them, so callers can
// match with errors.Is regardless of the message.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal")
)

var kindNames = map[error]string{
	ErrUnauthenticated: "unauthenticated",
	ErrForbidden:       "forbidden",
	ErrNotFound:        "not_found",
	ErrBadRequest:      "bad_request",
	ErrConflict:        "conflict",
	ErrInternal:        "internal",
}

var kindStatus = map[error]int{
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrForbidden:       http.StatusForbidden,
	ErrNotFound:        http.StatusNotFound,
	ErrBadRequest:      http.StatusBadRequest,
	ErrConflict:        http.StatusConflict,
	ErrInternal:        http.StatusInternalServerError,
}

type ApiErr struct {
	StatusCode int
	kind       error
	msg        string
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error, never sent to clients
}

func newApiErr(kind error, message string) *ApiErr {
	return &ApiErr{
		StatusCode: kindStatus[kind],
		kind:       kind,
		msg:        message,
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.msg, e.Details)
	}
	return e.msg
}

// Message is the short human-readable text safe to show to clients.
func (e *ApiErr) Message() string {
	return e.msg
}

// Kind returns the taxonomy name, e.g. "not_found".
func (e *ApiErr) Kind() string {
	return kindNames[e.kind]
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// errors.Is(err, errs.ErrNotFound) matches on the kind; the cause stays
// reachable for errors.As.
func (e *ApiErr) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.kind, e.Cause}
	}
	return []error{e.kind}
}

func NewUnauthenticatedError(message string) *ApiErr {
	return newApiErr(ErrUnauthenticated, message)
}

func NewForbiddenError(message string) *ApiErr {
	return newApiErr(ErrForbidden, message)
}

func NewNotFoundError(message string) *ApiErr {
	return newApiErr(ErrNotFound, message)
}

func NewBadRequestError(message string) *ApiErr {
	return newApiErr(ErrBadRequest, message)
}

func NewConflictError(message string) *ApiErr {
	return newApiErr(ErrConflict, message)
}

func NewInternalError(message string) *ApiErr {
	return newApiErr(ErrInternal, message)
}

func NewBadRequestErrorWithField(message, field, details string) *ApiErr {
	e := newApiErr(ErrBadRequest, message)
	e.Field = field
	e.Details = details
	return e
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	e := newApiErr(ErrInternal, message)
	e.Cause = cause
	return e
}

func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// KindOf reports the taxonomy name of err. Errors that are not ApiErr are
// unexpected and therefore internal.
func KindOf(err error) string {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return kindNames[ErrInternal]
}
