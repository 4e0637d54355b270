package carrier

import (
	"errors"
	"fmt"
)

// ProviderError represents a failure from a single carrier rate provider.
type ProviderError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ProviderError.
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewProviderError creates a new ProviderError.
func NewProviderError(carrier, code, message string) *ProviderError {
	return &ProviderError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *ProviderError) WithCause(err error) *ProviderError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *ProviderError) WithStatusCode(code int) *ProviderError {
	e.StatusCode = code
	return e
}

// Sentinel errors for the aggregation and selection pipeline.
var (
	// ErrNoQuotesAvailable indicates that every registered provider failed
	// or none are configured. It is a distinct condition, not an empty
	// success: callers must branch on it explicitly.
	ErrNoQuotesAvailable = errors.New("no quotes available")

	// ErrInvalidInput indicates a malformed shipment request, an empty
	// quote list passed to selection, or invalid selection criteria.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrIncompleteQuote indicates a carrier reply missing a price or
	// delivery estimate.
	ErrIncompleteQuote = errors.New("incomplete quote")

	// ErrServiceUnavailable indicates the carrier service is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")
)
