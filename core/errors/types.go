// ABOUTME: Custom error types for the extraction pipeline
// ABOUTME: Provides structured errors so callers can tell transport failures from parse failures

package errors

import (
	"errors"
	"fmt"
)

// TransportError represents a network-level failure: connection errors,
// timeouts, or a non-200 response after all retries were exhausted.
// The affected URL is skipped; the run continues.
type TransportError struct {
	URL        string
	StatusCode int
	Attempts   int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s failed after %d attempts: status %d", e.URL, e.Attempts, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

// Unwrap returns the underlying transport error, if any
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError represents malformed input encountered by one extraction
// strategy: broken structured data, an unparseable date fragment.
// It is caught at the smallest scope and means "this strategy yielded
// nothing"; it never propagates past the cascade.
type ParseError struct {
	Strategy string
	Err      error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure in %s strategy: %v", e.Strategy, e.Err)
}

// Unwrap returns the underlying parse error, if any
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsParse checks if an error is a ParseError
func IsParse(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
