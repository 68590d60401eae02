package parser

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// MarshalDocument serializes a generic document tree in the given format.
// SourceFormatUnknown falls back to YAML. JSON output is indented with two
// spaces and ends in a newline, matching typical committed spec files.
func MarshalDocument(doc map[string]any, format SourceFormat) ([]byte, error) {
	switch format {
	case SourceFormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("parser: failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to marshal YAML: %w", err)
		}
		return data, nil
	}
}

// Marshal serializes the result's document in its source format, so a
// parse-transform-write pipeline keeps the format it was given.
func (pr *ParseResult) Marshal() ([]byte, error) {
	return MarshalDocument(pr.Document, pr.SourceFormat)
}
