package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Domain errors surfaced by the back-office workflows. All are terminal
// validation/state errors; callers must not retry them.
var (
	ErrAmbiguousGrade         = New("AMBIGUOUS_GRADE", http.StatusUnprocessableEntity, "cannot determine source grade level and none was supplied")
	ErrClassroomYearMismatch  = New("CLASSROOM_YEAR_MISMATCH", http.StatusUnprocessableEntity, "target classroom belongs to a different academic year")
	ErrClassroomGradeMismatch = New("CLASSROOM_GRADE_MISMATCH", http.StatusUnprocessableEntity, "target classroom grade level does not match the promotion grade")
	ErrNoClassroomAvailable   = New("NO_CLASSROOM_AVAILABLE", http.StatusUnprocessableEntity, "no classroom available for the resolved grade in the target year")
	ErrNoPricingConfigured    = New("NO_PRICING_CONFIGURED", http.StatusUnprocessableEntity, "no fee template or configured amount for the grade level")
	ErrPayrollLocked          = New("PAYROLL_LOCKED", http.StatusConflict, "payroll is finalized and cannot be regenerated")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
