// Package oaserrors provides structured error types for oasoverlay.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: YAML/JSON parsing failures and malformed target expressions
//   - ValidationError: overlay document violations
//   - ApplyError: action application failures
//   - ResourceLimitError: resource exhaustion (size, count limits)
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	result, err := overlay.Apply(overlay.WithDocumentFile("api.yaml"), ...)
//	if err != nil {
//	    var applyErr *oaserrors.ApplyError
//	    if errors.As(err, &applyErr) {
//	        fmt.Printf("action %d failed\n", applyErr.ActionIndex)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrValidation indicates an overlay document validation failure.
	ErrValidation = errors.New("validation error")

	// ErrApply indicates an overlay action failed to apply.
	ErrApply = errors.New("apply error")

	// ErrNoMatch indicates a strict-mode action whose target matched no nodes.
	ErrNoMatch = errors.New("target matched no nodes")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse an input document or a target
// expression. This includes YAML/JSON deserialization errors, malformed
// overlay documents, and invalid target syntax.
type ParseError struct {
	// Path is the file path, source identifier, or target expression
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ValidationError represents an overlay document violation: an unsupported
// version, missing metadata, or an action that is not exactly one of
// update/remove.
type ValidationError struct {
	// Path is the location of the problem within the overlay (e.g., "actions[2]")
	Path string
	// Field is the specific field name with the issue
	Field string
	// Value is the problematic value (may be nil)
	Value any
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ApplyError represents a failure while applying a single overlay action.
// The zero-based ActionIndex identifies which action failed; actions after
// it were not applied, and the document retains all mutations made by the
// actions before it.
type ApplyError struct {
	// ActionIndex is the zero-based position of the failed action
	ActionIndex int
	// Target is the action's target expression
	Target string
	// NoMatch is true when the failure is a strict-mode zero-match condition
	NoMatch bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ApplyError) Error() string {
	msg := fmt.Sprintf("apply error at action %d", e.ActionIndex)
	if e.Target != "" {
		msg += fmt.Sprintf(" (target %q)", e.Target)
	}
	if e.NoMatch {
		msg += ": target matched no nodes"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ApplyError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrApply, and also ErrNoMatch when the NoMatch flag is set.
func (e *ApplyError) Is(target error) bool {
	if target == ErrApply {
		return true
	}
	if target == ErrNoMatch && e.NoMatch {
		return true
	}
	return false
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when an input exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "input_bytes", "cached_documents", "fetch_bytes"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
