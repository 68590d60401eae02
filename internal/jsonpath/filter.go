package jsonpath

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasoverlay/internal/doctree"
	"github.com/erraggy/oasoverlay/internal/maputil"
)

// evalFilter reports whether the candidate node satisfies the filter
// expression. Groups are alternatives: the expression holds when any one
// group holds.
func evalFilter(node any, expr *FilterExpr) bool {
	if expr == nil || len(expr.Groups) == 0 {
		return false
	}
	for _, group := range expr.Groups {
		if evalGroup(node, group) {
			return true
		}
	}
	return false
}

func evalGroup(node any, group *FilterGroup) bool {
	for _, term := range group.Terms {
		if !evalTerm(node, term) {
			return false
		}
	}
	return len(group.Terms) > 0
}

// evalTerm evaluates one @-relative query against the candidate node.
// Without an operator the term is an existence test on the relative path.
// With an operator, the first resolved value is compared; a path that
// resolves to nothing satisfies only "!=".
func evalTerm(node any, term *FilterTerm) bool {
	vals := resolveRelative(node, term.Steps)

	var result bool
	switch {
	case term.Operator == "":
		result = len(vals) > 0
	case len(vals) == 0:
		result = term.Operator == "!="
	default:
		result = compare(vals[0], term.Value, term.Operator)
	}

	if term.Negated {
		return !result
	}
	return result
}

// resolveRelative walks the relative steps of a filter term from the
// candidate node, returning every value the steps reach. Nested filter
// steps follow the same mapping/array rule as top-level filters.
func resolveRelative(node any, steps []Segment) []any {
	cur := []any{node}

	for _, step := range steps {
		var next []any
		for _, v := range cur {
			switch s := step.(type) {
			case ChildSegment:
				if val, ok := doctree.Field(v, s.Key); ok {
					next = append(next, val)
				}

			case WildcardSegment:
				switch n := v.(type) {
				case map[string]any:
					for _, k := range maputil.SortedKeys(n) {
						next = append(next, n[k])
					}
				case []any:
					next = append(next, n...)
				}

			case IndexSegment:
				if arr, ok := v.([]any); ok {
					idx := s.Index
					if idx < 0 {
						idx = len(arr) + idx
					}
					if idx >= 0 && idx < len(arr) {
						next = append(next, arr[idx])
					}
				}

			case FilterSegment:
				switch n := v.(type) {
				case map[string]any:
					if evalFilter(n, s.Expr) {
						next = append(next, n)
					}
				case []any:
					for _, elem := range n {
						if evalFilter(elem, s.Expr) {
							next = append(next, elem)
						}
					}
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		cur = next
	}
	return cur
}

// compare applies a comparison operator to a resolved value and a literal.
// Nil compares equal only to nil; ordering is defined for numbers (across
// int/float representations) and for strings, and is false otherwise.
func compare(left, right any, op string) bool {
	if left == nil || right == nil {
		bothNil := left == nil && right == nil
		switch op {
		case "==", "<=", ">=":
			return bothNil
		case "!=":
			return !bothNil
		}
		return false
	}

	switch op {
	case "==":
		return doctree.Equal(left, right)
	case "!=":
		return !doctree.Equal(left, right)
	}

	cmp, ok := orderedCompare(left, right)
	if !ok {
		return false
	}
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func orderedCompare(left, right any) (int, bool) {
	if lf, lok := doctree.NormalizeNumber(left); lok {
		rf, rok := doctree.NormalizeNumber(right)
		if !rok {
			return 0, false
		}
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		}
		return 0, true
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return strings.Compare(ls, rs), true
	}
	return 0, false
}

// String renders the expression in canonical form, e.g.
// "!@.security[?(@.customer_session)] && @.deprecated == false".
func (e *FilterExpr) String() string {
	parts := make([]string, len(e.Groups))
	for i, g := range e.Groups {
		parts[i] = g.String()
	}
	return strings.Join(parts, " || ")
}

func (g *FilterGroup) String() string {
	parts := make([]string, len(g.Terms))
	for i, t := range g.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " && ")
}

func (t *FilterTerm) String() string {
	var sb strings.Builder
	if t.Negated {
		sb.WriteByte('!')
	}
	sb.WriteByte('@')
	for _, step := range t.Steps {
		sb.WriteString(renderStep(step))
	}
	if t.Operator != "" {
		sb.WriteString(" ")
		sb.WriteString(t.Operator)
		sb.WriteString(" ")
		sb.WriteString(renderValue(t.Value))
	}
	return sb.String()
}

func renderStep(step Segment) string {
	switch s := step.(type) {
	case ChildSegment:
		return "." + s.Key
	case WildcardSegment:
		return ".*"
	case IndexSegment:
		return fmt.Sprintf("[%d]", s.Index)
	case FilterSegment:
		return "[?(" + s.Expr.String() + ")]"
	}
	return ""
}

func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return "'" + val + "'"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}
