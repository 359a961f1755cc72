// Package errors provides custom error types for the tagctl system.
// These errors enable programmatic error checking and keep the engine's
// failure taxonomy (not found, transport, validation, verification)
// consistent across the gateway, the engine, and the CLI.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the tagctl system
var (
	// ErrNotFound indicates that a requested path was not found or is forbidden
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport indicates that a network or HTTP level failure occurred
	ErrTransport = errors.New("transport failure")

	// ErrVerification indicates that a write appeared to succeed but a
	// re-read of the item disagreed with the intended state
	ErrVerification = errors.New("verification failed")

	// ErrUnauthorized indicates that the repository rejected the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a repository path is not found.
type NotFoundError struct {
	Path string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path %s not found", e.Path)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(path string) *NotFoundError {
	return &NotFoundError{Path: path}
}

// ValidationError represents a validation failure. It is raised before any
// network call is made.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// TransportError represents a network or HTTP failure talking to the
// content repository.
type TransportError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status %d for %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("unable to reach %s: %s", e.URL, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrTransport || target == ErrUnauthorized
	case 404:
		return target == ErrTransport || target == ErrNotFound
	}
	return target == ErrTransport
}

// NewTransportError creates a new TransportError
func NewTransportError(url string, statusCode int, message string, err error) *TransportError {
	return &TransportError{
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// VerificationError records a mutation whose post-write re-read still shows
// source tags present or the target tag absent.
type VerificationError struct {
	Path      string
	Remaining []string
	Missing   string
}

// Error implements the error interface
func (e *VerificationError) Error() string {
	if len(e.Remaining) > 0 {
		return fmt.Sprintf("verification failed for %s: source tags still present: %v", e.Path, e.Remaining)
	}
	if e.Missing != "" {
		return fmt.Sprintf("verification failed for %s: target tag %q absent after write", e.Path, e.Missing)
	}
	return fmt.Sprintf("verification failed for %s", e.Path)
}

// Is implements errors.Is support
func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

// ConfigError represents a configuration or saved-session error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTransport checks if an error is a transport error
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsVerification checks if an error is a verification error
func IsVerification(err error) bool {
	return errors.Is(err, ErrVerification)
}

// IsUnauthorized checks if an error indicates rejected credentials
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(url string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{URL: url, Message: err.Error(), Err: err}
}
