package overlay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasoverlay/oaserrors"
	"github.com/erraggy/oasoverlay/parser"
)

// ParseOverlay parses an overlay document from YAML or JSON bytes.
//
// The function detects the format automatically; yaml handles both. The
// returned error, when non-nil, is a *oaserrors.ParseError.
func ParseOverlay(data []byte) (*Overlay, error) {
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, &oaserrors.ParseError{
			Message: "failed to parse overlay document",
			Cause:   err,
		}
	}
	return &o, nil
}

// ParseOverlayFile parses an overlay document from a file path.
// Supports both YAML (.yaml, .yml) and JSON (.json) files.
func ParseOverlayFile(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ParseError{
			Path:    path,
			Message: "failed to read overlay file",
			Cause:   err,
		}
	}

	o, err := ParseOverlay(data)
	if err != nil {
		var pe *oaserrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, err
	}
	return o, nil
}

// ParseOverlayReader parses an overlay document from an io.Reader.
func ParseOverlayReader(r io.Reader) (*Overlay, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &oaserrors.ParseError{
			Message: "failed to read overlay data",
			Cause:   err,
		}
	}
	return ParseOverlay(data)
}

// IsOverlayDocument checks whether the given bytes appear to be an overlay
// document rather than a specification.
//
// This is a cheap sniff for the top-level "overlay" version field, handling
// both YAML and JSON forms. Use it for format routing, not validation.
func IsOverlayDocument(data []byte) bool {
	return bytes.Contains(data, []byte("overlay:")) ||
		bytes.Contains(data, []byte(`"overlay":`))
}

// MarshalOverlay serializes an overlay in the given format.
// SourceFormatUnknown falls back to YAML.
func MarshalOverlay(o *Overlay, format parser.SourceFormat) ([]byte, error) {
	switch format {
	case parser.SourceFormatJSON:
		data, err := json.MarshalIndent(o, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("overlay: failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		data, err := yaml.Marshal(o)
		if err != nil {
			return nil, fmt.Errorf("overlay: failed to marshal YAML: %w", err)
		}
		return data, nil
	}
}
