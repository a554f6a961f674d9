package service

import (
	"errors"
	"fmt"
)

// ValidationKind names a local check that stopped an action before any
// network call.
type ValidationKind string

const (
	MissingFields    ValidationKind = "missing_fields"
	InvalidEmail     ValidationKind = "invalid_email"
	EmptyCart        ValidationKind = "empty_cart"
	InvalidProduct   ValidationKind = "invalid_product"
	InvalidSelection ValidationKind = "invalid_selection"
)

// ValidationError is recoverable and never changes state.
type ValidationError struct {
	Kind   ValidationKind
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("validation failed: %s", e.Kind)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Kind, e.Reason)
}

// SubmissionKind separates orders that never reached the service from
// orders the service refused.
type SubmissionKind string

const (
	SubmissionTransport SubmissionKind = "transport"
	SubmissionRejected  SubmissionKind = "rejected"
)

// SubmissionError reports a failed order call. Cart and form are kept so the
// user can submit again.
type SubmissionError struct {
	Kind          SubmissionKind
	StatusCode    int
	ServerMessage string
	Err           error
}

func (e *SubmissionError) Error() string {
	if e.Kind == SubmissionRejected {
		return fmt.Sprintf("order rejected: status %d: %s", e.StatusCode, e.ServerMessage)
	}
	return fmt.Sprintf("order not delivered: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// CatalogLoadError reports a failed category fetch.
type CatalogLoadError struct {
	Err error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("failed to load categories: %v", e.Err)
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// ErrSessionEnded is returned when a response arrives after its session was
// closed or reset. Nothing was applied.
var ErrSessionEnded = errors.New("session ended before the response arrived")

// IsValidation reports whether err is a ValidationError of the given kind.
func IsValidation(err error, kind ValidationKind) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Kind == kind
}

// IsSubmission reports whether err is a SubmissionError of the given kind.
func IsSubmission(err error, kind SubmissionKind) bool {
	var serr *SubmissionError
	return errors.As(err, &serr) && serr.Kind == kind
}
