package core

import (
	"errors"
	"fmt"
)

// Predefined sentinel errors for common cases.
var (
	// ErrTemplateNotFound indicates a requested template was not found
	// under the template root.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrProviderUnavailable indicates the provider's transport client
	// never initialized; every send fails fast with this error.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// UnknownProviderError indicates that the configured provider name is not
// present in the registry.
type UnknownProviderError struct {
	// Name is the offending provider name.
	Name string
}

// Error implements the error interface.
func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown email provider %q", e.Name)
}

// Is implements error matching for errors.Is.
func (e *UnknownProviderError) Is(target error) bool {
	_, ok := target.(*UnknownProviderError)
	return ok
}

// ConfigError indicates a missing or invalid configuration key. It surfaces
// at construction time; a service is never built from a bad configuration.
type ConfigError struct {
	// Key is the configuration key that failed.
	Key string

	// Message is the error message.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Key, e.Message)
}

// Is implements error matching for errors.Is.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// ValidationError represents a validation error with specific field information.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Message is the validation error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Is implements error matching for errors.Is.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// TemplateError represents an error in template processing.
type TemplateError struct {
	// Template is the name of the template that caused the error.
	Template string

	// Operation is the operation that failed (e.g., "resolve", "parse", "render").
	Operation string

	// Message is the error message.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error in %s during %s: %s", e.Template, e.Operation, e.Message)
}

// Unwrap returns the underlying error.
func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// TransportError represents an error from an email backend. It carries the
// backend error code and message so callers can distinguish a rejected
// message from a misconfigured service.
type TransportError struct {
	// Provider is the name of the provider that generated the error.
	Provider string

	// Code is the backend-specific error code.
	Code string

	// Message is the error message from the backend.
	Message string

	// StatusCode is the HTTP status code (for HTTP-based backends).
	StatusCode int

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s error [%s] (status: %d): %s",
			e.Provider, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s error [%s]: %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *TransportError) Is(target error) bool {
	te, ok := target.(*TransportError)
	if !ok {
		return false
	}
	return e.Provider == te.Provider && e.Code == te.Code
}

// Constructor functions for errors

// NewConfigError creates a new configuration error.
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewTemplateError creates a new template error.
func NewTemplateError(template, operation, message string, cause error) *TemplateError {
	return &TemplateError{
		Template:  template,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// NewTransportError creates a new transport error.
func NewTransportError(provider, code, message string) *TransportError {
	return &TransportError{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}

// NewUnavailableError wraps ErrProviderUnavailable with the initialization
// failure that degraded the provider.
func NewUnavailableError(provider string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%s: %w: %v", provider, ErrProviderUnavailable, cause)
	}
	return fmt.Errorf("%s: %w", provider, ErrProviderUnavailable)
}
