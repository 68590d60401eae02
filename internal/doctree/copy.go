package doctree

// Copy returns a deep copy of a parsed document tree. Maps and arrays are
// duplicated recursively; scalars are returned as-is. The result shares no
// mutable structure with the input.
func Copy(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, val := range n {
			out[k] = Copy(val)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = Copy(item)
		}
		return out
	default:
		return v
	}
}

// CopyMap is Copy specialized for a document root, preserving the map type.
// A nil input yields an empty map.
func CopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = Copy(val)
	}
	return out
}
