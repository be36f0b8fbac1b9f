package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the offer aggregation domain.
var (
	// ErrInvalidRequest indicates the search query failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderTimeout indicates a provider did not respond within its deadline.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrProviderUnavailable indicates a provider could not be reached or refused the call.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrUnknownOfferKind indicates a raw record declared a kind the normalizer does not know.
	ErrUnknownOfferKind = errors.New("unknown offer kind")
)

// ProviderError wraps a transport, auth or rate-limit failure from a single provider.
// It never crosses the fan-out boundary of the aggregator.
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a non-retryable ProviderError.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// NewRetryableProviderError creates a ProviderError that the retry policy may repeat.
func NewRetryableProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err, Retryable: true}
}

// NewProviderTimeoutError creates a ProviderError wrapping ErrProviderTimeout.
func NewProviderTimeoutError(provider string) *ProviderError {
	return &ProviderError{Provider: provider, Err: ErrProviderTimeout}
}

// NewProviderUnavailableError creates a retryable ProviderError wrapping
// ErrProviderUnavailable for a provider that answered with a server-side status.
func NewProviderUnavailableError(provider string, status int) *ProviderError {
	return &ProviderError{Provider: provider, Err: fmt.Errorf("%w (status %d)", ErrProviderUnavailable, status), Retryable: true}
}

// ValidationError describes a single invalid field of a Query.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is match ErrInvalidRequest.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NormalizationError reports a raw record whose shape could not be mapped to any offer variant.
type NormalizationError struct {
	Source string
	Kind   OfferKind
	Err    error
}

// Error implements the error interface.
func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize record from %s (kind %q): %v", e.Source, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// IsProviderTimeout reports whether err is a provider timeout.
func IsProviderTimeout(err error) bool {
	return errors.Is(err, ErrProviderTimeout)
}

// IsRetryable reports whether err is a ProviderError marked retryable.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
