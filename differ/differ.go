// Package differ computes the delta between a specification document and
// its overlay-transformed result.
//
// The primary artifact is an RFC 7386 JSON merge patch: the smallest JSON
// object that, merged into the original document, produces the transformed
// one. Alongside it the differ reports a flat list of changed paths, which
// is what humans actually scan when reviewing an overlay's effect.
package differ

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/erraggy/oasoverlay/internal/doctree"
	"github.com/erraggy/oasoverlay/internal/maputil"
	"github.com/erraggy/oasoverlay/internal/pathutil"
)

// ChangeKind classifies a single changed path.
type ChangeKind string

const (
	// Added means the path exists only in the transformed document.
	Added ChangeKind = "added"
	// Removed means the path exists only in the original document.
	Removed ChangeKind = "removed"
	// Modified means the path exists in both documents with different values.
	Modified ChangeKind = "modified"
)

// PathChange is one changed location between the two documents.
type PathChange struct {
	// Path is the dotted location, e.g. "$.paths./v1/products.get.security".
	Path string
	// Kind is added, removed, or modified.
	Kind ChangeKind
}

// String renders the change as "kind path".
func (c PathChange) String() string {
	return fmt.Sprintf("%s %s", c.Kind, c.Path)
}

// DiffResult describes the delta between two documents.
type DiffResult struct {
	// Patch is the RFC 7386 merge patch from before to after, as JSON.
	Patch []byte

	// Changed lists every changed path in deterministic (sorted) order.
	Changed []PathChange

	// Identical is true when the documents are structurally equal.
	Identical bool
}

// Diff computes the delta between two document trees.
//
// Neither input is mutated. The merge patch is computed on the JSON
// encodings of the trees, so YAML-parsed and JSON-parsed documents compare
// cleanly.
func Diff(before, after map[string]any) (*DiffResult, error) {
	if doctree.Equal(before, after) {
		return &DiffResult{Patch: []byte("{}"), Identical: true}, nil
	}

	beforeJSON, err := json.Marshal(before)
	if err != nil {
		return nil, fmt.Errorf("differ: failed to encode original document: %w", err)
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return nil, fmt.Errorf("differ: failed to encode transformed document: %w", err)
	}

	patch, err := jsonpatch.CreateMergePatch(beforeJSON, afterJSON)
	if err != nil {
		return nil, fmt.Errorf("differ: failed to compute merge patch: %w", err)
	}

	pb := pathutil.Get()
	defer pathutil.Put(pb)
	pb.Push("$")

	result := &DiffResult{Patch: patch}
	collectChanges(before, after, pb, &result.Changed)
	return result, nil
}

// collectChanges walks both trees in parallel, appending one PathChange per
// divergence. Map keys are visited in sorted order so output is stable.
// Arrays are treated as atomic values: any element difference reports the
// array path as modified, matching the overlay's replace-wholesale merge
// semantics.
func collectChanges(before, after any, pb *pathutil.PathBuilder, out *[]PathChange) {
	bm, bIsMap := before.(map[string]any)
	am, aIsMap := after.(map[string]any)

	if bIsMap && aIsMap {
		for _, k := range maputil.SortedKeys(bm) {
			pb.Push(k)
			if av, ok := am[k]; ok {
				if !doctree.Equal(bm[k], av) {
					collectChanges(bm[k], av, pb, out)
				}
			} else {
				*out = append(*out, PathChange{Path: pb.String(), Kind: Removed})
			}
			pb.Pop()
		}
		for _, k := range maputil.SortedKeys(am) {
			if _, ok := bm[k]; !ok {
				pb.Push(k)
				*out = append(*out, PathChange{Path: pb.String(), Kind: Added})
				pb.Pop()
			}
		}
		return
	}

	*out = append(*out, PathChange{Path: pb.String(), Kind: Modified})
}

// ByKind filters the changed paths by kind.
func (r *DiffResult) ByKind(kind ChangeKind) []PathChange {
	var out []PathChange
	for _, c := range r.Changed {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
