package parser

import (
	"fmt"

	"github.com/erraggy/oasoverlay/internal/doctree"
)

// CheckShape verifies that a document is a plain tree of mappings, arrays,
// and scalars: the shape downstream consumers (marshaling, diffing, overlay
// targets) rely on. It reports the paths of any values with unexpected Go
// types, such as map[any]any leaking from a YAML decoder.
//
// A nil return means the document is well-shaped.
func CheckShape(doc map[string]any) []string {
	var bad []string
	doctree.Walk(doc, func(path string, value any) bool {
		switch value.(type) {
		case map[string]any, []any, string, bool, nil,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		default:
			bad = append(bad, fmt.Sprintf("%s: unexpected type %T", path, value))
			// The subtree is already suspect; descending would only
			// repeat the finding for every child.
			return false
		}
	})
	return bad
}
