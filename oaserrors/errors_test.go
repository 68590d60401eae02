package oaserrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/file.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}

		msg := err.Error()
		if msg != "parse error in /path/to/file.yaml at line 42, column 10: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with target expression as path", func(t *testing.T) {
		err := &ParseError{Path: "$.paths.*.*[?(", Message: "unterminated filter"}
		if err.Error() != "parse error in $.paths.*.*[?(: unterminated filter" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		//nolint:errorlint // testing pointer identity
		if unwrapped := err.Unwrap(); unwrapped != cause {
			t.Error("Unwrap should return cause")
		}
	})

	t.Run("Is matches ErrParse", func(t *testing.T) {
		err := &ParseError{Message: "test"}
		if !errors.Is(err, ErrParse) {
			t.Error("ParseError should match ErrParse")
		}
	})

	t.Run("Is does not match other sentinels", func(t *testing.T) {
		err := &ParseError{}
		if errors.Is(err, ErrValidation) {
			t.Error("ParseError should not match ErrValidation")
		}
		if errors.Is(err, ErrApply) {
			t.Error("ParseError should not match ErrApply")
		}
	})

	t.Run("As extracts ParseError", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &ParseError{Path: "test.yaml", Line: 5})
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatal("errors.As should succeed")
		}
		if parseErr.Path != "test.yaml" {
			t.Errorf("unexpected path: %s", parseErr.Path)
		}
		if parseErr.Line != 5 {
			t.Errorf("unexpected line: %d", parseErr.Line)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ValidationError{
			Path:    "actions[2]",
			Field:   "target",
			Message: "required",
		}
		if err.Error() != "validation error at actions[2].target: required" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ValidationError{}
		if err.Error() != "validation error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrValidation", func(t *testing.T) {
		err := &ValidationError{Message: "missing title"}
		if !errors.Is(err, ErrValidation) {
			t.Error("ValidationError should match ErrValidation")
		}
	})

	t.Run("As extracts ValidationError", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &ValidationError{Field: "overlay"})
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatal("errors.As should succeed")
		}
		if valErr.Field != "overlay" {
			t.Errorf("unexpected field: %s", valErr.Field)
		}
	})
}

func TestApplyError(t *testing.T) {
	t.Run("Error message with target and cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := &ApplyError{
			ActionIndex: 3,
			Target:      "$.paths.*.*",
			Message:     "update failed",
			Cause:       cause,
		}
		want := `apply error at action 3 (target "$.paths.*.*"): update failed: boom`
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message for strict no-match", func(t *testing.T) {
		err := &ApplyError{ActionIndex: 1, Target: "$.nope", NoMatch: true}
		want := `apply error at action 1 (target "$.nope"): target matched no nodes`
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrApply", func(t *testing.T) {
		err := &ApplyError{ActionIndex: 0}
		if !errors.Is(err, ErrApply) {
			t.Error("ApplyError should match ErrApply")
		}
	})

	t.Run("Is matches ErrNoMatch only when flagged", func(t *testing.T) {
		flagged := &ApplyError{ActionIndex: 0, NoMatch: true}
		if !errors.Is(flagged, ErrNoMatch) {
			t.Error("ApplyError with NoMatch should match ErrNoMatch")
		}
		plain := &ApplyError{ActionIndex: 0}
		if errors.Is(plain, ErrNoMatch) {
			t.Error("ApplyError without NoMatch should not match ErrNoMatch")
		}
	})

	t.Run("Is chains through wrapped ParseError cause", func(t *testing.T) {
		err := &ApplyError{
			ActionIndex: 2,
			Target:      "$.paths[?(",
			Cause:       &ParseError{Path: "$.paths[?(", Message: "unterminated filter"},
		}
		if !errors.Is(err, ErrApply) {
			t.Error("should match ErrApply")
		}
		if !errors.Is(err, ErrParse) {
			t.Error("should match ErrParse through the cause chain")
		}
	})
}

func TestResourceLimitError(t *testing.T) {
	t.Run("Error message with limit and actual", func(t *testing.T) {
		err := &ResourceLimitError{
			ResourceType: "input_bytes",
			Limit:        1024,
			Actual:       4096,
		}
		if err.Error() != "resource limit exceeded: input_bytes (limit: 1024, actual: 4096)" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrResourceLimit", func(t *testing.T) {
		err := &ResourceLimitError{ResourceType: "fetch_bytes"}
		if !errors.Is(err, ErrResourceLimit) {
			t.Error("ResourceLimitError should match ErrResourceLimit")
		}
	})

	t.Run("Unwrap returns nil", func(t *testing.T) {
		err := &ResourceLimitError{}
		if err.Unwrap() != nil {
			t.Error("Unwrap should return nil")
		}
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with option and value", func(t *testing.T) {
		err := &ConfigError{
			Option:  "WithDocumentFile",
			Message: "exactly one document source required",
		}
		if err.Error() != "configuration error for WithDocumentFile: exactly one document source required" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrConfig", func(t *testing.T) {
		err := &ConfigError{Option: "cache_ttl"}
		if !errors.Is(err, ErrConfig) {
			t.Error("ConfigError should match ErrConfig")
		}
	})

	t.Run("As extracts ConfigError", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &ConfigError{Option: "format"})
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatal("errors.As should succeed")
		}
		if cfgErr.Option != "format" {
			t.Errorf("unexpected option: %s", cfgErr.Option)
		}
	})
}
