// Package util provides utility functions and types for navlink.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrNoMatch.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., PatternError, FactoryError). Each type
//     implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All custom error types must implement:
//
//	Error() string           – human-readable message
//	Unwrap() error           – if the type wraps another error
//	Is(target error) bool    – for errors.Is() compatibility
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrNoMatch        = errors.New("no matching route")
	ErrInvalidPattern = errors.New("invalid route pattern")
	ErrMissingParam   = errors.New("missing required parameter")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrStackLimit     = errors.New("navigation stack limit reached")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrSchemeDenied   = errors.New("url scheme not allowed")
	ErrHostDenied     = errors.New("url host not allowed")
	ErrAuthRequired   = errors.New("authentication required")
)

// PatternError represents a route pattern syntax error.
type PatternError struct {
	Pattern string
	Message string
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Message)
}

// Is checks if the error matches the target.
func (e *PatternError) Is(target error) bool {
	if target == ErrInvalidPattern {
		return true
	}
	_, ok := target.(*PatternError)
	return ok
}

// NewPatternError creates a new PatternError.
func NewPatternError(pattern, message string) *PatternError {
	return &PatternError{Pattern: pattern, Message: message}
}

// MissingParameterError reports a required route parameter absent from the
// supplied parameter set.
type MissingParameterError struct {
	Pattern string
	Name    string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q for pattern %q", e.Name, e.Pattern)
}

// Is checks if the error matches the target.
func (e *MissingParameterError) Is(target error) bool {
	if target == ErrMissingParam {
		return true
	}
	_, ok := target.(*MissingParameterError)
	return ok
}

// NewMissingParameterError creates a new MissingParameterError.
func NewMissingParameterError(pattern, name string) *MissingParameterError {
	return &MissingParameterError{Pattern: pattern, Name: name}
}

// RouteNotFoundError represents a failed resolution for a path.
type RouteNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route found for path %s", e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNotFound || target == ErrNoMatch {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(path string) *RouteNotFoundError {
	return &RouteNotFoundError{Path: path}
}

// FactoryError represents a route factory failure. The pattern matched and
// parameters were extracted; constructing the route instance failed. Callers
// may retry with different parameters or treat it as a terminal routing
// error, distinct from a no-match.
type FactoryError struct {
	Pattern string
	Cause   error
}

// Error implements the error interface.
func (e *FactoryError) Error() string {
	return fmt.Sprintf("route factory for pattern %q failed: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying error.
func (e *FactoryError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *FactoryError) Is(target error) bool {
	_, ok := target.(*FactoryError)
	return ok || errors.Is(e.Cause, target)
}

// NewFactoryError creates a new FactoryError.
func NewFactoryError(pattern string, cause error) *FactoryError {
	return &FactoryError{Pattern: pattern, Cause: cause}
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCallerError returns true if the error indicates bad input from the
// caller rather than an internal failure.
func IsCallerError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrMissingParam) {
		return true
	}

	if errors.Is(err, ErrInvalidPattern) {
		return true
	}

	return errors.Is(err, ErrSchemeDenied) || errors.Is(err, ErrHostDenied)
}
