//go:build integration

// Package harness runs txtar-encoded overlay corpora end to end: parse the
// specification, parse the overlay, apply, and compare the transformed
// document against the archived expectation.
package harness

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasoverlay/internal/doctree"
	"github.com/erraggy/oasoverlay/overlay"
	"github.com/erraggy/oasoverlay/parser"
)

// Case is one corpus archive: a specification, an overlay, and the document
// the overlay is expected to produce.
type Case struct {
	// Name is the archive file name without extension
	Name string
	// Spec is the raw specification document (spec.yaml in the archive)
	Spec []byte
	// Overlay is the raw overlay document (overlay.yaml in the archive)
	Overlay []byte
	// Expected is the document after application (expected.yaml). For
	// error cases it holds the partial state at the halt point.
	Expected []byte
	// Config carries the optional per-case settings (case.yaml)
	Config CaseConfig

	path string
}

// CaseConfig tunes how a case is executed and what it asserts.
type CaseConfig struct {
	// Strict promotes zero-match actions to halting errors
	Strict bool `yaml:"strict,omitempty"`
	// ExpectError, when set, requires application to fail with an error
	// whose message contains this substring
	ExpectError string `yaml:"expect-error,omitempty"`
	// ActionsApplied asserts the applied-action count (nil skips the check)
	ActionsApplied *int `yaml:"actions-applied,omitempty"`
	// ActionsSkipped asserts the skipped-action count (nil skips the check)
	ActionsSkipped *int `yaml:"actions-skipped,omitempty"`
	// Idempotent additionally applies the overlay to its own output and
	// requires the document to come out unchanged
	Idempotent bool `yaml:"idempotent,omitempty"`
}

// Run executes a case: the full parse → apply pipeline with every
// expectation the archive encodes.
func Run(t *testing.T, c *Case) {
	t.Helper()

	p := parser.New()
	spec, err := p.ParseBytes(c.Spec)
	require.NoError(t, err, "parsing %s spec", c.Name)
	require.Empty(t, spec.Errors, "spec parse errors in %s", c.Name)

	o, err := overlay.ParseOverlay(c.Overlay)
	require.NoError(t, err, "parsing %s overlay", c.Name)

	applier := overlay.NewApplier()
	applier.StrictTargets = c.Config.Strict

	result, err := applier.ApplyParsed(spec, o)

	if c.Config.ExpectError != "" {
		require.Error(t, err, "case %s expected a halting error", c.Name)
		assert.Contains(t, err.Error(), c.Config.ExpectError)
		if c.Expected != nil {
			// The result carries the partial state at the halt point.
			assertDocumentEqual(t, c, result.Document, spec.SourceFormat)
		}
		return
	}

	require.NoError(t, err, "case %s failed to apply", c.Name)

	if c.Config.ActionsApplied != nil {
		assert.Equal(t, *c.Config.ActionsApplied, result.ActionsApplied, "applied count")
	}
	if c.Config.ActionsSkipped != nil {
		assert.Equal(t, *c.Config.ActionsSkipped, result.ActionsSkipped, "skipped count")
	}

	assertDocumentEqual(t, c, result.Document, result.SourceFormat)

	if c.Config.Idempotent {
		again, err := applier.ApplyDocument(doctree.CopyMap(result.Document), o.Actions)
		require.NoError(t, err, "case %s second application failed", c.Name)
		if !doctree.Equal(result.Document, again.Document) {
			t.Errorf("case %s is not idempotent:\n%s",
				c.Name, cmp.Diff(result.Document, again.Document))
		}
	}
}

// assertDocumentEqual checks the produced tree against the archived
// expectation two ways: structural equality and marshalled-bytes equality.
func assertDocumentEqual(t *testing.T, c *Case, got map[string]any, format parser.SourceFormat) {
	t.Helper()

	p := parser.New()
	expected, err := p.ParseBytes(c.Expected)
	require.NoError(t, err, "parsing %s expected document", c.Name)

	if !doctree.Equal(expected.Document, got) {
		t.Errorf("case %s produced an unexpected document:\n%s",
			c.Name, cmp.Diff(expected.Document, got))
		return
	}

	// Both trees marshal through the same encoder, so semantically equal
	// documents must serialize to identical bytes.
	wantBytes, err := parser.MarshalDocument(expected.Document, format)
	require.NoError(t, err)
	gotBytes, err := parser.MarshalDocument(got, format)
	require.NoError(t, err)
	assert.Equal(t, string(wantBytes), string(gotBytes), "case %s marshalled output", c.Name)
}
