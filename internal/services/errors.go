package services

import (
	"errors"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AccessError carries a user-facing message for one of the sentinel errors
// above. errors.Is matches the sentinel.
type AccessError struct {
	Kind    error
	Message string
}

func (e *AccessError) Error() string { return e.Message }
func (e *AccessError) Unwrap() error { return e.Kind }

func notFound(msg string) error     { return &AccessError{Kind: ErrNotFound, Message: msg} }
func forbidden(msg string) error    { return &AccessError{Kind: ErrForbidden, Message: msg} }
func unauthorized(msg string) error { return &AccessError{Kind: ErrUnauthorized, Message: msg} }

// ValidationError is a 400 with field-keyed messages.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Fields.String() }

func invalid(errs models.FieldErrors) error {
	if errs.Empty() {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func fieldError(field, msg string) error {
	errs := models.FieldErrors{}
	errs.Add(field, msg)
	return &ValidationError{Fields: errs}
}
