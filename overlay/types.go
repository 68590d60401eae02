package overlay

import (
	"fmt"

	"github.com/erraggy/oasoverlay/parser"
)

// Overlay represents an OpenAPI Overlay document (v1.0.0).
//
// An overlay is an ordered list of declarative actions applied to a
// specification document. Action order is semantic: each action is
// evaluated against the document state produced by the actions before it.
type Overlay struct {
	// Version is the overlay specification version (e.g., "1.0.0").
	// This field is required.
	Version string `yaml:"overlay" json:"overlay"`

	// Info contains metadata about the overlay.
	// This field is required.
	Info Info `yaml:"info" json:"info"`

	// Extends is an optional URI reference to the target document.
	// When specified, it indicates which document this overlay is designed for.
	Extends string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Actions is the ordered list of transformation actions.
	// At least one action is required.
	Actions []Action `yaml:"actions" json:"actions"`
}

// Info contains metadata about an overlay document. It is descriptive only
// and has no effect on how actions apply.
type Info struct {
	// Title is the human-readable name of the overlay.
	// This field is required.
	Title string `yaml:"title" json:"title"`

	// Version is the version of the overlay document.
	// This field is required.
	Version string `yaml:"version" json:"version"`
}

// Action represents a single transformation action in an overlay.
//
// Each action targets locations in the document via a JSONPath expression
// and carries exactly one of Update or Remove. An action with neither, or
// with both, is malformed and halts application.
type Action struct {
	// Target is a JSONPath expression selecting nodes to operate on.
	// This field is required.
	Target string `yaml:"target" json:"target"`

	// Description is an optional human-readable explanation of the action.
	// CommonMark syntax may be used for rich text representation.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Update specifies content to merge into each selected node.
	// The merge is shallow: keys present in Update replace the existing
	// key outright, whether the value is a scalar, an array, or a nested
	// mapping. Arrays never deep-merge or append.
	Update any `yaml:"update,omitempty" json:"update,omitempty"`

	// Remove, when true, deletes each selected node from its parent.
	Remove bool `yaml:"remove,omitempty" json:"remove,omitempty"`
}

// Operation returns the operation an action carries: "update", "remove",
// or "" for a malformed action with neither.
func (a Action) Operation() string {
	switch {
	case a.Remove && a.Update == nil:
		return "remove"
	case a.Update != nil && !a.Remove:
		return "update"
	default:
		return ""
	}
}

// ApplyResult contains the result of applying an overlay to a document.
//
// When Apply halts mid-sequence (malformed target, malformed action, or a
// strict-mode no-match), the result still carries the partially-mutated
// document and everything recorded up to the failing action. There is no
// rollback.
type ApplyResult struct {
	// Document is the transformed document.
	Document map[string]any

	// SourceFormat is the original document format (YAML or JSON).
	SourceFormat parser.SourceFormat

	// ActionsApplied is the number of actions that matched and applied.
	ActionsApplied int

	// ActionsSkipped is the number of actions skipped because their target
	// matched no nodes.
	ActionsSkipped int

	// Changes records details of each applied action.
	Changes []ChangeRecord

	// Warnings contains non-fatal issues encountered during application.
	Warnings ApplyWarnings
}

// AddWarning records a structured warning.
func (r *ApplyResult) AddWarning(w *ApplyWarning) {
	r.Warnings = append(r.Warnings, w)
}

// HasChanges returns true if any actions were applied.
func (r *ApplyResult) HasChanges() bool {
	return r.ActionsApplied > 0
}

// HasWarnings returns true if any warnings were generated.
func (r *ApplyResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ChangeRecord describes a single applied action.
type ChangeRecord struct {
	// ActionIndex is the zero-based index of the action in the overlay.
	ActionIndex int

	// Target is the JSONPath expression that was evaluated.
	Target string

	// Operation describes what was done: "update", "replace", or "remove".
	// "update" is a shallow key-wise merge into a mapping; "replace" swaps
	// a non-mapping location wholesale.
	Operation string

	// MatchCount is the number of nodes matched by the target.
	MatchCount int
}

// DryRunResult contains the result of a dry-run overlay preview.
//
// A dry-run executes the same sequential fold as Apply against a scratch
// copy, so each proposed change reflects the document state the prior
// actions would have produced. The caller's document is never modified.
type DryRunResult struct {
	// WouldApply is the number of actions that would apply.
	WouldApply int

	// WouldSkip is the number of actions that would be skipped.
	WouldSkip int

	// Proposed lists the changes that would be made, in action order.
	Proposed []ProposedChange

	// Warnings contains non-fatal issues that would occur during application.
	Warnings ApplyWarnings
}

// AddWarning records a structured warning.
func (r *DryRunResult) AddWarning(w *ApplyWarning) {
	r.Warnings = append(r.Warnings, w)
}

// HasChanges returns true if any changes would be made.
func (r *DryRunResult) HasChanges() bool {
	return r.WouldApply > 0
}

// HasWarnings returns true if any warnings would occur.
func (r *DryRunResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ProposedChange describes a change a dry-run would make.
type ProposedChange struct {
	// ActionIndex is the zero-based index of the action in the overlay.
	ActionIndex int

	// Target is the JSONPath expression that was evaluated.
	Target string

	// Description is the action's description, if provided.
	Description string

	// Operation describes what would be done: "update", "replace", or "remove".
	Operation string

	// MatchCount is the number of nodes that would be affected.
	MatchCount int

	// MatchedPaths lists the concrete resolved locations of matched nodes
	// (up to 10), e.g. "$.paths./orders.get".
	MatchedPaths []string
}

// WarningCategory identifies the type of an apply warning.
type WarningCategory string

const (
	// WarnNoMatch indicates an action target matched no nodes.
	WarnNoMatch WarningCategory = "no_match"
	// WarnActionError indicates an error executing an action.
	WarnActionError WarningCategory = "action_error"
)

// ApplyWarning represents a structured warning from overlay application.
type ApplyWarning struct {
	// Category identifies the type of warning.
	Category WarningCategory
	// ActionIndex is the zero-based index of the action.
	ActionIndex int
	// Target is the JSONPath expression.
	Target string
	// Message describes the warning.
	Message string
	// Cause is the underlying error, if applicable.
	Cause error
}

// String returns a formatted warning message.
func (w *ApplyWarning) String() string {
	if w.Cause != nil {
		return fmt.Sprintf("action[%d] target %q: %v", w.ActionIndex, w.Target, w.Cause)
	}
	if w.Message != "" {
		return fmt.Sprintf("action[%d] target %q: %s", w.ActionIndex, w.Target, w.Message)
	}
	return fmt.Sprintf("action[%d] target %q: %s", w.ActionIndex, w.Target, w.Category)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (w *ApplyWarning) Unwrap() error {
	return w.Cause
}

// NewNoMatchWarning creates a warning for an action whose target matched no nodes.
func NewNoMatchWarning(actionIndex int, target string) *ApplyWarning {
	return &ApplyWarning{
		Category:    WarnNoMatch,
		ActionIndex: actionIndex,
		Target:      target,
		Message:     "target matched no nodes",
	}
}

// NewActionErrorWarning creates a warning for an action whose execution failed.
func NewActionErrorWarning(actionIndex int, target string, cause error) *ApplyWarning {
	return &ApplyWarning{
		Category:    WarnActionError,
		ActionIndex: actionIndex,
		Target:      target,
		Cause:       cause,
	}
}

// ApplyWarnings is a collection of ApplyWarning.
type ApplyWarnings []*ApplyWarning

// Strings returns the formatted warning messages.
func (ws ApplyWarnings) Strings() []string {
	result := make([]string, len(ws))
	for i, w := range ws {
		if w == nil {
			continue
		}
		result[i] = w.String()
	}
	return result
}

// ByCategory filters warnings by category.
func (ws ApplyWarnings) ByCategory(cat WarningCategory) ApplyWarnings {
	var result ApplyWarnings
	for _, w := range ws {
		if w != nil && w.Category == cat {
			result = append(result, w)
		}
	}
	return result
}
