package jsonpath

import (
	"fmt"

	"github.com/erraggy/oasoverlay/internal/doctree"
	"github.com/erraggy/oasoverlay/internal/maputil"
	"github.com/erraggy/oasoverlay/internal/pathutil"
)

// Match is one resolved location in a document: the matched value plus the
// container chain it lives in, so the location can be replaced or removed
// without re-evaluating the path.
type Match struct {
	Value any

	parent *Match
	key    string // key in parent when inMap
	index  int    // index in parent when !inMap
	inMap  bool
}

// IsRoot reports whether the match is the document root itself.
func (m *Match) IsRoot() bool { return m.parent == nil }

// Path renders the concrete location of the match, e.g. "$.paths./orders.get".
func (m *Match) Path() string {
	var chain []*Match
	for cur := m; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	pb := pathutil.Get()
	defer pathutil.Put(pb)
	for i := len(chain) - 1; i >= 0; i-- {
		cur := chain[i]
		switch {
		case cur.parent == nil:
			pb.Push("$")
		case cur.inMap:
			pb.Push(cur.key)
		default:
			pb.PushIndex(cur.index)
		}
	}
	return pb.String()
}

// Matches resolves the path against doc and returns every matched location.
// Wildcards and filters over mappings visit keys in sorted order, so the
// result order is deterministic for a given document.
func (p *Path) Matches(doc any) []*Match {
	if len(p.segments) == 0 {
		return nil
	}

	curp := getMatchSlice()
	*curp = append(*curp, &Match{Value: doc})

	for i := 1; i < len(p.segments); i++ {
		nextp := getMatchSlice()
		*nextp = expandSegment(*curp, p.segments[i], *nextp)
		putMatchSlice(curp)
		curp = nextp

		if len(*curp) == 0 {
			putMatchSlice(curp)
			return nil
		}
	}

	out := make([]*Match, len(*curp))
	copy(out, *curp)
	putMatchSlice(curp)
	return out
}

// Get evaluates the path against the document and returns all matching values.
//
// The document should be a map[string]any or []any structure (typically from
// JSON/YAML unmarshaling). Returns nil if no matches are found.
func (p *Path) Get(doc any) []any {
	matches := p.Matches(doc)
	if len(matches) == 0 {
		return nil
	}
	values := make([]any, len(matches))
	for i, m := range matches {
		values[i] = m.Value
	}
	return values
}

// expandSegment applies one segment to the current match set, appending the
// results to out.
//
// A filter segment narrows the set when the node is a mapping (the predicate
// tests the mapping itself) and selects passing elements when the node is an
// array; scalar nodes never pass a filter.
func expandSegment(in []*Match, seg Segment, out []*Match) []*Match {
	for _, m := range in {
		switch s := seg.(type) {
		case ChildSegment:
			if val, ok := doctree.Field(m.Value, s.Key); ok {
				out = append(out, &Match{Value: val, parent: m, key: s.Key, inMap: true})
			}

		case WildcardSegment:
			switch node := m.Value.(type) {
			case map[string]any:
				for _, k := range maputil.SortedKeys(node) {
					out = append(out, &Match{Value: node[k], parent: m, key: k, inMap: true})
				}
			case []any:
				for i, elem := range node {
					out = append(out, &Match{Value: elem, parent: m, index: i})
				}
			}

		case IndexSegment:
			if arr, ok := m.Value.([]any); ok {
				idx := s.Index
				if idx < 0 {
					idx = len(arr) + idx
				}
				if idx >= 0 && idx < len(arr) {
					out = append(out, &Match{Value: arr[idx], parent: m, index: idx})
				}
			}

		case FilterSegment:
			switch node := m.Value.(type) {
			case map[string]any:
				if evalFilter(node, s.Expr) {
					out = append(out, m)
				}
			case []any:
				for i, elem := range node {
					if evalFilter(elem, s.Expr) {
						out = append(out, &Match{Value: elem, parent: m, index: i})
					}
				}
			}
		}
	}
	return out
}

// ReplaceMatch writes v at the matched location and returns the document
// root. Replacing the root match returns v itself as the new root.
func ReplaceMatch(root any, m *Match, v any) any {
	if m.parent == nil {
		m.Value = v
		return v
	}
	if m.inMap {
		if pm, ok := m.parent.Value.(map[string]any); ok {
			pm[m.key] = v
		}
	} else {
		if pa, ok := m.parent.Value.([]any); ok && m.index < len(pa) {
			pa[m.index] = v
		}
	}
	m.Value = v
	return root
}

// RemoveMatch deletes the matched location from its parent container and
// returns the (possibly new) document root. Map keys are deleted; array
// elements are spliced out, not nilled, so when several matches share one
// array parent they must be removed in descending index order.
func RemoveMatch(root any, m *Match) (any, error) {
	if m.parent == nil {
		return root, fmt.Errorf("jsonpath: cannot remove document root")
	}

	parent := m.parent
	if m.inMap {
		if pm, ok := parent.Value.(map[string]any); ok {
			delete(pm, m.key)
		}
		return root, nil
	}

	pa, ok := parent.Value.([]any)
	if !ok || m.index >= len(pa) {
		return root, nil
	}
	spliced := append(pa[:m.index:m.index], pa[m.index+1:]...)
	return ReplaceMatch(root, parent, spliced), nil
}

// Remove deletes every location matched by the path. Returns the (possibly
// new) document root and the number of locations removed. Matches are
// removed last-to-first so array splices never shift an index that is still
// pending.
func (p *Path) Remove(doc any) (any, int, error) {
	matches := p.Matches(doc)
	for i := len(matches) - 1; i >= 0; i-- {
		var err error
		doc, err = RemoveMatch(doc, matches[i])
		if err != nil {
			return doc, 0, err
		}
	}
	return doc, len(matches), nil
}
