// Package oaserrors provides structured error types for the oasoverlay library.
//
// Import path: github.com/erraggy/oasoverlay/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides five core error types:
//
//   - [ParseError]: YAML/JSON parsing failures and malformed target expressions
//   - [ValidationError]: overlay document violations
//   - [ApplyError]: failures while applying a single overlay action
//   - [ResourceLimitError]: resource exhaustion (size, count limits)
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrValidation]: matches any [ValidationError]
//   - [ErrApply]: matches any [ApplyError]
//   - [ErrNoMatch]: matches [ApplyError] with NoMatch=true (strict mode only)
//   - [ErrResourceLimit]: matches any [ResourceLimitError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	result, err := overlay.Apply(
//		overlay.WithDocumentFile("api.yaml"),
//		overlay.WithOverlayFile("overlay.yaml"),
//	)
//	if errors.Is(err, oaserrors.ErrParse) {
//	    // A document or target expression failed to parse
//	}
//
// Extract error details with errors.As():
//
//	var applyErr *oaserrors.ApplyError
//	if errors.As(err, &applyErr) {
//	    fmt.Printf("action %d against %s failed\n", applyErr.ActionIndex, applyErr.Target)
//	}
//
// Check for strict-mode no-match conditions:
//
//	if errors.Is(err, oaserrors.ErrNoMatch) {
//	    // An action matched nothing and StrictTargets was enabled
//	}
//
// # Error Chaining
//
// All error types support error chaining via the Cause field and Unwrap() method.
// This allows finding root causes through the standard error chain:
//
//	var parseErr *oaserrors.ParseError
//	if errors.As(err, &parseErr) {
//	    if errors.Is(parseErr.Cause, os.ErrNotExist) {
//	        // The input file doesn't exist
//	    }
//	}
package oaserrors
