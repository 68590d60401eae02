package overlay

import (
	"fmt"

	"github.com/erraggy/oasoverlay/internal/options"
	"github.com/erraggy/oasoverlay/parser"
)

// Option is a function that configures an overlay application operation.
type Option func(*applyConfig) error

// applyConfig holds configuration for an overlay application operation.
type applyConfig struct {
	// Input source for the specification document (exactly one must be set)
	documentFile   *string
	documentParsed *parser.ParseResult

	// Input source for the overlay (exactly one must be set)
	overlayFile   *string
	overlayParsed *Overlay

	strictTargets bool
	logger        parser.Logger
}

// WithDocumentFile specifies a file path or URL as the specification source.
func WithDocumentFile(path string) Option {
	return func(cfg *applyConfig) error {
		if path == "" {
			return fmt.Errorf("document path cannot be empty")
		}
		cfg.documentFile = &path
		return nil
	}
}

// WithDocumentParsed specifies an already-parsed specification as the source.
func WithDocumentParsed(result *parser.ParseResult) Option {
	return func(cfg *applyConfig) error {
		if result == nil {
			return fmt.Errorf("parsed document cannot be nil")
		}
		cfg.documentParsed = result
		return nil
	}
}

// WithOverlayFile specifies a file path as the overlay source.
func WithOverlayFile(path string) Option {
	return func(cfg *applyConfig) error {
		if path == "" {
			return fmt.Errorf("overlay path cannot be empty")
		}
		cfg.overlayFile = &path
		return nil
	}
}

// WithOverlayParsed specifies an already-parsed overlay as the source.
func WithOverlayParsed(o *Overlay) Option {
	return func(cfg *applyConfig) error {
		if o == nil {
			return fmt.Errorf("overlay cannot be nil")
		}
		cfg.overlayParsed = o
		return nil
	}
}

// WithStrictTargets enables strict mode, where a target matching no nodes
// halts application instead of being skipped with a warning.
func WithStrictTargets(strict bool) Option {
	return func(cfg *applyConfig) error {
		cfg.strictTargets = strict
		return nil
	}
}

// WithLogger sets the structured logger for per-action diagnostics.
func WithLogger(logger parser.Logger) Option {
	return func(cfg *applyConfig) error {
		cfg.logger = logger
		return nil
	}
}

// applyOptions applies all options and validates the configuration.
func applyOptions(opts ...Option) (*applyConfig, error) {
	cfg := &applyConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify a document source (use WithDocumentFile or WithDocumentParsed)",
		"must specify exactly one document source",
		cfg.documentFile != nil, cfg.documentParsed != nil,
	); err != nil {
		return nil, err
	}

	if err := options.ValidateSingleInputSource(
		"must specify an overlay source (use WithOverlayFile or WithOverlayParsed)",
		"must specify exactly one overlay source",
		cfg.overlayFile != nil, cfg.overlayParsed != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadInputs parses the specification and overlay from the configuration.
func loadInputs(cfg *applyConfig) (*parser.ParseResult, *Overlay, error) {
	var (
		spec *parser.ParseResult
		o    *Overlay
		err  error
	)

	if cfg.documentFile != nil {
		p := parser.New()
		p.Logger = cfg.logger
		spec, err = p.Parse(*cfg.documentFile)
		if err != nil {
			return nil, nil, err
		}
	} else {
		spec = cfg.documentParsed
	}

	if cfg.overlayFile != nil {
		o, err = ParseOverlayFile(*cfg.overlayFile)
		if err != nil {
			return nil, nil, err
		}
	} else {
		o = cfg.overlayParsed
	}

	return spec, o, nil
}

// Apply applies an overlay to a specification using functional options.
//
// This is the recommended front door for most callers.
//
// Example:
//
//	result, err := overlay.Apply(
//	    overlay.WithDocumentFile("openapi.yaml"),
//	    overlay.WithOverlayFile("portal-overlay.yaml"),
//	    overlay.WithStrictTargets(true),
//	)
func Apply(opts ...Option) (*ApplyResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("overlay: invalid options: %w", err)
	}

	spec, o, err := loadInputs(cfg)
	if err != nil {
		return nil, err
	}

	a := &Applier{StrictTargets: cfg.strictTargets, Logger: cfg.logger}
	return a.ApplyParsed(spec, o)
}

// DryRun previews overlay application using functional options.
//
// Example:
//
//	result, err := overlay.DryRun(
//	    overlay.WithDocumentFile("openapi.yaml"),
//	    overlay.WithOverlayFile("portal-overlay.yaml"),
//	)
//	for _, change := range result.Proposed {
//	    fmt.Printf("would %s %d nodes at %s\n", change.Operation, change.MatchCount, change.Target)
//	}
func DryRun(opts ...Option) (*DryRunResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("overlay: invalid options: %w", err)
	}

	spec, o, err := loadInputs(cfg)
	if err != nil {
		return nil, err
	}

	a := &Applier{StrictTargets: cfg.strictTargets, Logger: cfg.logger}
	return a.DryRun(spec, o)
}
