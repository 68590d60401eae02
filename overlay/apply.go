package overlay

import (
	"github.com/erraggy/oasoverlay/internal/doctree"
	"github.com/erraggy/oasoverlay/internal/jsonpath"
	"github.com/erraggy/oasoverlay/oaserrors"
	"github.com/erraggy/oasoverlay/parser"
)

// Applier applies overlays to specification documents.
type Applier struct {
	// StrictTargets promotes zero-match actions from skip warnings to
	// halting errors.
	StrictTargets bool

	// Logger receives per-action diagnostics. Nil disables logging.
	Logger parser.Logger
}

// NewApplier creates a new Applier with default settings.
func NewApplier() *Applier {
	return &Applier{}
}

func (a *Applier) log() parser.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return parser.NopLogger{}
}

// ApplyFiles parses a specification and an overlay from file paths or URLs
// and applies the overlay.
func (a *Applier) ApplyFiles(specPath, overlayPath string) (*ApplyResult, error) {
	p := parser.New()
	p.Logger = a.Logger
	spec, err := p.Parse(specPath)
	if err != nil {
		return nil, err
	}

	o, err := ParseOverlayFile(overlayPath)
	if err != nil {
		return nil, err
	}

	return a.ApplyParsed(spec, o)
}

// ApplyParsed applies an overlay to an already-parsed specification.
//
// The specification's document is deep-copied first; the caller's tree is
// never mutated. Actions apply strictly in order, each re-resolving its
// target against the current state of the copy.
//
// On a halting failure (malformed target, malformed action, strict-mode
// no-match) the returned result is non-nil and carries the partially
// mutated document together with the changes and warnings accumulated
// before the failing action.
func (a *Applier) ApplyParsed(spec *parser.ParseResult, o *Overlay) (*ApplyResult, error) {
	doc := doctree.CopyMap(spec.Document)
	result, err := a.ApplyDocument(doc, o.Actions)
	result.SourceFormat = spec.SourceFormat
	return result, err
}

// ApplyDocument is the low-level fold: it applies actions to doc in place.
//
// Most callers want ApplyParsed, which isolates the caller's document.
// ApplyDocument exists for pipelines that stack several overlays onto one
// working copy without re-copying between them.
func (a *Applier) ApplyDocument(doc map[string]any, actions []Action) (*ApplyResult, error) {
	result := &ApplyResult{Document: doc}

	for i, action := range actions {
		record, err := a.applyAction(doc, action, i)
		if err != nil {
			// Halt. Actions before i are already in the document and stay
			// there; the result reports exactly what was done.
			return result, err
		}

		if record.MatchCount == 0 {
			if a.StrictTargets {
				return result, &oaserrors.ApplyError{
					ActionIndex: i,
					Target:      action.Target,
					NoMatch:     true,
				}
			}
			a.log().Debug("overlay action skipped", "action", i, "target", action.Target)
			result.AddWarning(NewNoMatchWarning(i, action.Target))
			result.ActionsSkipped++
			continue
		}

		a.log().Debug("overlay action applied",
			"action", i, "target", action.Target,
			"operation", record.Operation, "matches", record.MatchCount)
		result.Changes = append(result.Changes, *record)
		result.ActionsApplied++
	}

	return result, nil
}

// DryRun previews overlay application without modifying the caller's document.
//
// The preview runs the identical sequential fold against a scratch copy, so
// each proposed change sees the effects of the actions before it, and a
// malformed action halts the preview exactly where Apply would halt.
func (a *Applier) DryRun(spec *parser.ParseResult, o *Overlay) (*DryRunResult, error) {
	doc := doctree.CopyMap(spec.Document)
	result := &DryRunResult{}

	for i, action := range o.Actions {
		path, matches, err := a.resolveAction(doc, action, i)
		if err != nil {
			result.AddWarning(NewActionErrorWarning(i, action.Target, err))
			return result, err
		}

		if len(matches) == 0 {
			if a.StrictTargets {
				return result, &oaserrors.ApplyError{
					ActionIndex: i,
					Target:      action.Target,
					NoMatch:     true,
				}
			}
			result.AddWarning(NewNoMatchWarning(i, action.Target))
			result.WouldSkip++
			continue
		}

		change := ProposedChange{
			ActionIndex:  i,
			Target:       action.Target,
			Description:  action.Description,
			MatchCount:   len(matches),
			MatchedPaths: matchedPaths(matches),
		}

		// Apply to the scratch copy so later actions preview against the
		// state this one produces.
		record, err := a.executeAction(doc, path, matches, action, i)
		if err != nil {
			result.AddWarning(NewActionErrorWarning(i, action.Target, err))
			return result, err
		}
		change.Operation = record.Operation

		result.Proposed = append(result.Proposed, change)
		result.WouldApply++
	}

	return result, nil
}

// maxMatchedPaths caps MatchedPaths in dry-run output; a wildcard over a
// large document can match hundreds of operations.
const maxMatchedPaths = 10

func matchedPaths(matches []*jsonpath.Match) []string {
	n := len(matches)
	if n > maxMatchedPaths {
		n = maxMatchedPaths
	}
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		paths[i] = matches[i].Path()
	}
	return paths
}

// applyAction applies a single action to the document.
func (a *Applier) applyAction(doc map[string]any, action Action, index int) (*ChangeRecord, error) {
	path, matches, err := a.resolveAction(doc, action, index)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &ChangeRecord{ActionIndex: index, Target: action.Target}, nil
	}
	return a.executeAction(doc, path, matches, action, index)
}

// resolveAction parses the action's target lazily and resolves it against
// the current document state. Malformed actions and malformed targets
// surface as halting errors here.
func (a *Applier) resolveAction(doc map[string]any, action Action, index int) (*jsonpath.Path, []*jsonpath.Match, error) {
	if op := action.Operation(); op == "" {
		return nil, nil, &oaserrors.ApplyError{
			ActionIndex: index,
			Target:      action.Target,
			Cause: &oaserrors.ValidationError{
				Path:    actionPath(index),
				Message: "action must carry exactly one of update or remove",
			},
		}
	}

	path, err := jsonpath.Parse(action.Target)
	if err != nil {
		return nil, nil, &oaserrors.ApplyError{
			ActionIndex: index,
			Target:      action.Target,
			Cause: &oaserrors.ParseError{
				Path:    action.Target,
				Message: "invalid target expression",
				Cause:   err,
			},
		}
	}

	return path, path.Matches(doc), nil
}

// executeAction performs the action against resolved matches.
func (a *Applier) executeAction(doc map[string]any, path *jsonpath.Path, matches []*jsonpath.Match, action Action, index int) (*ChangeRecord, error) {
	record := &ChangeRecord{
		ActionIndex: index,
		Target:      action.Target,
		MatchCount:  len(matches),
	}

	if action.Remove {
		record.Operation = "remove"
		// Remove last-to-first so array splices never shift an index that
		// is still pending in the match set.
		for i := len(matches) - 1; i >= 0; i-- {
			if _, err := jsonpath.RemoveMatch(doc, matches[i]); err != nil {
				return nil, &oaserrors.ApplyError{
					ActionIndex: index,
					Target:      action.Target,
					Cause:       err,
				}
			}
		}
		return record, nil
	}

	record.Operation = "update"
	for _, m := range matches {
		op, err := mergeAt(doc, m, action.Update)
		if err != nil {
			return nil, &oaserrors.ApplyError{
				ActionIndex: index,
				Target:      action.Target,
				Cause:       err,
			}
		}
		if op == "replace" {
			record.Operation = "replace"
		}
	}
	return record, nil
}

// mergeAt merges an update value into one matched location and reports the
// operation performed.
//
// Mapping locations get a shallow key-wise merge: each key in update
// replaces the existing key outright, with the value deep-copied so matched
// nodes never alias the overlay or each other. Non-mapping locations
// (scalars, arrays) are replaced wholesale.
func mergeAt(doc map[string]any, m *jsonpath.Match, update any) (string, error) {
	target, targetIsMap := m.Value.(map[string]any)
	source, sourceIsMap := update.(map[string]any)

	if targetIsMap && sourceIsMap {
		for key, val := range source {
			target[key] = doctree.Copy(val)
		}
		return "update", nil
	}

	if m.IsRoot() {
		// The root must stay a mapping; a wholesale replacement would
		// change the document's type out from under the caller.
		return "", &oaserrors.ValidationError{
			Path:    "$",
			Message: "cannot replace document root with a non-mapping value",
		}
	}

	jsonpath.ReplaceMatch(doc, m, doctree.Copy(update))
	return "replace", nil
}
