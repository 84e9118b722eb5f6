package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of AI-related error
type ErrorType string

const (
	ErrTypeProvider       ErrorType = "provider"
	ErrTypeConfiguration  ErrorType = "configuration"
	ErrTypeAuthentication ErrorType = "authentication"
	ErrTypeRateLimit      ErrorType = "rate_limit"
	ErrTypeNetwork        ErrorType = "network"
	ErrTypeTimeout        ErrorType = "timeout"
	ErrTypeValidation     ErrorType = "validation"
	ErrTypeRegistration   ErrorType = "registration"
	ErrTypeNotFound       ErrorType = "not_found"
	ErrTypeInternal       ErrorType = "internal"
)

// ProviderError represents errors specific to AI providers
type ProviderError struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message provides human-readable error description
	Message string `json:"message"`

	// Provider indicates which provider caused the error
	Provider string `json:"provider,omitempty"`

	// StatusCode for HTTP-related errors
	StatusCode int `json:"status_code,omitempty"`

	// Underlying error that caused this error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	var parts []string

	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}

	parts = append(parts, fmt.Sprintf("type=%s", e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is matches provider errors of the same type
func (e *ProviderError) Is(target error) bool {
	if pe, ok := target.(*ProviderError); ok {
		return e.Type == pe.Type
	}
	return false
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Provider string `json:"provider"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for provider '%s', field '%s': %s",
		e.Provider, e.Field, e.Message)
}

// NewProviderError creates a new provider error
func NewProviderError(errType ErrorType, message, provider string) *ProviderError {
	return &ProviderError{
		Type:     errType,
		Message:  message,
		Provider: provider,
	}
}

// NewProviderErrorWithCause creates a provider error with an underlying cause
func NewProviderErrorWithCause(errType ErrorType, message, provider string, cause error) *ProviderError {
	return &ProviderError{
		Type:     errType,
		Message:  message,
		Provider: provider,
		Cause:    cause,
	}
}

// NewHTTPError creates a provider error for a non-success HTTP status
func NewHTTPError(provider string, status int, message string) *ProviderError {
	errType := ErrTypeProvider
	switch {
	case status == 401 || status == 403:
		errType = ErrTypeAuthentication
	case status == 404:
		errType = ErrTypeNotFound
	case status == 429:
		errType = ErrTypeRateLimit
	case status == 400 || status == 422:
		errType = ErrTypeValidation
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	err := NewProviderError(errType, message, provider)
	err.StatusCode = status
	return err
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(provider, field, message string) *ConfigurationError {
	return &ConfigurationError{
		Provider: provider,
		Field:    field,
		Message:  message,
	}
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return true
	}
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Type == ErrTypeConfiguration
}
