package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInternal        = errors.New("internal server error")
	ErrUnauthorized    = errors.New("Unauthorized")
	ErrValidation      = errors.New("validation failed")
	ErrAuthorMismatch  = errors.New("Authenticated user does not match author")
	ErrInvalidAuthorID = errors.New("author must be a valid user id")
	ErrSlugExists      = errors.New("Slug already exists. Please choose another one.")
	ErrPostNotFound    = errors.New("post not found")
)

// ValidationError is a rejected payload. Missing lists the absent required
// fields when that is the reason for the rejection.
type ValidationError struct {
	Message string
	Missing []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newMissingFieldsError(fields []string) *ValidationError {
	return &ValidationError{
		Message: "Missing required fields: " + strings.Join(fields, ", "),
		Missing: fields,
	}
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FaultError carries an unexpected failure. It matches ErrInternal and keeps
// the original message so that the edge can decide what to expose.
type FaultError struct {
	Err error
}

func (e *FaultError) Error() string {
	return e.Err.Error()
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func (e *FaultError) Is(target error) bool {
	return target == ErrInternal
}
