package questiongen

import (
	"fmt"
)

// ConfigurationError means generation cannot start because the credential
// is absent or unusable. No request was sent.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "question generation not configured: " + e.Reason
}

var (
	// ErrMissingCredential is returned when no API key is configured.
	ErrMissingCredential = &ConfigurationError{Reason: "API key is missing"}

	// ErrInvalidCredential is returned when the API key is the
	// well-known placeholder.
	ErrInvalidCredential = &ConfigurationError{Reason: "API key is a placeholder"}
)

// NetworkError is a transport failure. Status is the HTTP status for
// non-success replies and 0 for connectivity failures; Detail carries the
// raw error body or the connection error text.
type NetworkError struct {
	Status int
	Detail string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generation request failed with status %d: %s", e.Status, e.Detail)
	}
	return "generation request failed: " + e.Detail
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParsingError means the reply did not have the expected structure.
type ParsingError struct {
	Reason string
	Err    error
}

func (e *ParsingError) Error() string {
	return "could not parse generated question: " + e.Reason
}

func (e *ParsingError) Unwrap() error { return e.Err }

func parsingErrorf(format string, args ...any) *ParsingError {
	return &ParsingError{Reason: fmt.Sprintf(format, args...)}
}
