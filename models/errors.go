package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Controllers map these to HTTP
// statuses; services return them wrapped with context via fmt.Errorf("%w").
var (
	ErrNotFound         = errors.New("item not found")
	ErrForbidden        = errors.New("only the original reporter may do this")
	ErrUnauthenticated  = errors.New("no reporter identity established")
	ErrUploadFailed     = errors.New("image upload failed")
	ErrStoreUnavailable = errors.New("item store unavailable")
)

// ValidationError reports a missing or invalid submission field. It is
// user-correctable and maps to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidUploadError reports an image that breaks the size or MIME-type
// rules before any upload is attempted.
type InvalidUploadError struct {
	Reason string
}

func (e *InvalidUploadError) Error() string {
	return fmt.Sprintf("invalid upload: %s", e.Reason)
}

// IsValidation reports whether err is a field or upload validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	var ue *InvalidUploadError
	return errors.As(err, &ve) || errors.As(err, &ue)
}
