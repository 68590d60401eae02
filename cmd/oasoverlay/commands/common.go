// Package commands provides CLI command handlers for oasoverlay.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasoverlay/internal/cliutil"
	"github.com/erraggy/oasoverlay/internal/fileutil"
	"github.com/erraggy/oasoverlay/internal/pathutil"
	"github.com/erraggy/oasoverlay/overlay"
	"github.com/erraggy/oasoverlay/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// UsageError marks an error caused by bad command-line usage. The main
// dispatcher maps it to exit code 2 instead of 1.
type UsageError struct {
	Message string
}

// Error returns the usage problem.
func (e *UsageError) Error() string {
	return e.Message
}

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// Writef writes formatted output to the writer, logging write failures to
// stderr.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return usageErrorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	Writef(w, "%s\n", bytes)
	return nil
}

// WriteDocument writes marshalled document bytes to the output path, or to
// stdout when the path is empty. Output paths are sanitized (symlink targets
// rejected) and files are created with restrictive permissions because
// transformed specs may carry sensitive API detail.
func WriteDocument(outputPath string, data []byte) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing document to stdout: %w", err)
		}
		return nil
	}

	cleaned, err := pathutil.SanitizeOutputPath(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// FormatSpecPath returns a display-friendly path for the specification.
// Returns "<stdin>" if the path is StdinFilePath, otherwise the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// parseSpecArg parses a specification from a path, URL, or stdin ("-").
func parseSpecArg(specPath string) (*parser.ParseResult, error) {
	p := parser.New()
	if specPath == StdinFilePath {
		result, err := p.ParseReader(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("parsing stdin: %w", err)
		}
		return result, nil
	}
	result, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("parsing specification: %w", err)
	}
	return result, nil
}

// parseOverlayArg parses an overlay document from a file path.
func parseOverlayArg(overlayPath string) (*overlay.Overlay, error) {
	o, err := overlay.ParseOverlayFile(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("parsing overlay: %w", err)
	}
	return o, nil
}
