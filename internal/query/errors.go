package query

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes query errors.
type ErrorCode string

const (
	// ErrCodeUnknownQuery indicates a query name that is not registered.
	ErrCodeUnknownQuery ErrorCode = "UNKNOWN_QUERY"

	// ErrCodeInvalidParam indicates a query parameter outside its domain.
	ErrCodeInvalidParam ErrorCode = "INVALID_PARAM"
)

// Error reports a query that could not be started.
type Error struct {
	Code    ErrorCode
	Query   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("%s: %s (query=%s)", e.Code, e.Message, e.Query)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownQuery returns true if err is an unknown-query error.
func IsUnknownQuery(err error) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeUnknownQuery
	}
	return false
}

// IsInvalidParam returns true if err is an invalid-parameter error.
func IsInvalidParam(err error) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeInvalidParam
	}
	return false
}
