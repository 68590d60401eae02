// Package doctree provides a small node layer over parsed YAML/JSON document
// trees (map[string]any, []any, scalars).
//
// The overlay engine never manipulates concrete map/slice types directly when
// it can help it: predicate evaluation, merging, copying, and traversal all go
// through this package, so the document representation stays in one place.
package doctree

import (
	"github.com/erraggy/oasoverlay/internal/maputil"
	"github.com/erraggy/oasoverlay/internal/pathutil"
)

// Kind classifies a node in a parsed document tree.
type Kind int

const (
	// ScalarNode is any leaf value: string, number, bool, nil.
	ScalarNode Kind = iota
	// MapNode is a string-keyed mapping.
	MapNode
	// ArrayNode is an ordered sequence.
	ArrayNode
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case MapNode:
		return "map"
	case ArrayNode:
		return "array"
	default:
		return "scalar"
	}
}

// KindOf classifies v. Anything that is not a map[string]any or []any is a
// scalar, including nil.
func KindOf(v any) Kind {
	switch v.(type) {
	case map[string]any:
		return MapNode
	case []any:
		return ArrayNode
	default:
		return ScalarNode
	}
}

// Field returns the named field of a mapping node. The second return is false
// when v is not a mapping or the field is absent.
func Field(v any, name string) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	val, ok := m[name]
	return val, ok
}

// Items returns the elements of an array node, or nil when v is not an array.
func Items(v any) []any {
	a, _ := v.([]any)
	return a
}

// Len returns the child count of v: key count for maps, element count for
// arrays, 0 for scalars.
func Len(v any) int {
	switch n := v.(type) {
	case map[string]any:
		return len(n)
	case []any:
		return len(n)
	default:
		return 0
	}
}

// Visitor dispatches on the three node variants.
type Visitor interface {
	VisitMap(m map[string]any)
	VisitArray(a []any)
	VisitScalar(v any)
}

// Visit classifies v and invokes the matching visitor method. It does not
// recurse; use Walk for full traversal.
func Visit(v any, visitor Visitor) {
	switch n := v.(type) {
	case map[string]any:
		visitor.VisitMap(n)
	case []any:
		visitor.VisitArray(n)
	default:
		visitor.VisitScalar(n)
	}
}

// WalkFunc receives each node with its dotted path ("$", "$.paths",
// "$.servers[0]", ...). Returning false skips the node's children.
type WalkFunc func(path string, value any) bool

// Walk traverses the tree depth-first in deterministic order: map keys are
// visited sorted, array elements in sequence. The root is visited as "$".
func Walk(root any, fn WalkFunc) {
	pb := pathutil.Get()
	defer pathutil.Put(pb)
	pb.Push("$")
	walk(root, pb, fn)
}

func walk(v any, pb *pathutil.PathBuilder, fn WalkFunc) {
	if !fn(pb.String(), v) {
		return
	}
	switch n := v.(type) {
	case map[string]any:
		for _, k := range maputil.SortedKeys(n) {
			pb.Push(k)
			walk(n[k], pb, fn)
			pb.Pop()
		}
	case []any:
		for i, item := range n {
			pb.PushIndex(i)
			walk(item, pb, fn)
			pb.Pop()
		}
	}
}
