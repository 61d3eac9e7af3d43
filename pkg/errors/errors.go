package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for programmatic handling at the API boundary.
type Code string

const (
	CodeUnknown       Code = "unknown"
	CodeInvalid       Code = "invalid"
	CodeNotFound      Code = "not_found"
	CodeAlreadyExists Code = "already_exists"
	CodeUnauthorized  Code = "unauthorized"
	CodeInternal      Code = "internal"
)

// AppError carries a stable code and a client-safe message alongside the
// underlying cause.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap supports errors.Is/As chains.
func (e *AppError) Unwrap() error { return e.Err }

// New creates an AppError with code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap annotates err with code and message. A nil err behaves like New.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of err, or CodeUnknown for non-AppError values.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
