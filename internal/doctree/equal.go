package doctree

// Equal reports deep structural equality of two document trees. Maps compare
// key-wise, arrays element-wise in order, scalars by value. Numeric scalars
// compare across int/uint/float representations, so a tree that round-tripped
// through JSON still equals its YAML-parsed original.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, present := bv[k]
			if !present || !Equal(v, bval) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return scalarEqual(a, b)
	}
}

func scalarEqual(a, b any) bool {
	if af, ok := NormalizeNumber(a); ok {
		bf, bok := NormalizeNumber(b)
		return bok && af == bf
	}
	if _, bIsNum := NormalizeNumber(b); bIsNum {
		return false
	}
	if KindOf(b) != ScalarNode {
		return false
	}
	return a == b
}

// NormalizeNumber converts the numeric types YAML and JSON unmarshalling can
// produce to float64. The second return is false for non-numeric values.
func NormalizeNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
