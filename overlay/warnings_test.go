package overlay

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestApplyWarningString(t *testing.T) {
	tests := []struct {
		name    string
		warning *ApplyWarning
		wantSub string
	}{
		{
			name:    "no match",
			warning: NewNoMatchWarning(2, "$.paths.*.*"),
			wantSub: `action[2] target "$.paths.*.*": target matched no nodes`,
		},
		{
			name:    "action error",
			warning: NewActionErrorWarning(0, "$.info", fmt.Errorf("boom")),
			wantSub: `action[0] target "$.info": boom`,
		},
		{
			name: "category fallback",
			warning: &ApplyWarning{
				Category:    WarnActionError,
				ActionIndex: 1,
				Target:      "$",
			},
			wantSub: `action[1] target "$": action_error`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.warning.String(); !strings.Contains(got, tt.wantSub) {
				t.Errorf("String() = %q, want substring %q", got, tt.wantSub)
			}
		})
	}
}

func TestApplyWarningUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	w := NewActionErrorWarning(0, "$", cause)
	if !errors.Is(w, cause) {
		t.Error("warning should unwrap to its cause")
	}

	if NewNoMatchWarning(0, "$").Unwrap() != nil {
		t.Error("no-match warning has no cause to unwrap")
	}
}

func TestApplyWarningsByCategory(t *testing.T) {
	ws := ApplyWarnings{
		NewNoMatchWarning(0, "$.a"),
		NewActionErrorWarning(1, "$.b", errors.New("x")),
		NewNoMatchWarning(2, "$.c"),
		nil,
	}

	noMatch := ws.ByCategory(WarnNoMatch)
	if len(noMatch) != 2 {
		t.Errorf("ByCategory(no_match) = %d warnings, want 2", len(noMatch))
	}
	actionErrs := ws.ByCategory(WarnActionError)
	if len(actionErrs) != 1 {
		t.Errorf("ByCategory(action_error) = %d warnings, want 1", len(actionErrs))
	}
}

func TestApplyWarningsStrings(t *testing.T) {
	ws := ApplyWarnings{
		NewNoMatchWarning(0, "$.a"),
		NewNoMatchWarning(1, "$.b"),
	}
	got := ws.Strings()
	if len(got) != 2 {
		t.Fatalf("Strings() length = %d, want 2", len(got))
	}
	if !strings.Contains(got[1], "$.b") {
		t.Errorf("Strings()[1] = %q", got[1])
	}
}

func TestResultFlags(t *testing.T) {
	r := &ApplyResult{}
	if r.HasChanges() || r.HasWarnings() {
		t.Error("empty result should report no changes and no warnings")
	}
	r.ActionsApplied = 1
	r.AddWarning(NewNoMatchWarning(0, "$"))
	if !r.HasChanges() || !r.HasWarnings() {
		t.Error("result flags should reflect recorded changes and warnings")
	}

	d := &DryRunResult{}
	if d.HasChanges() || d.HasWarnings() {
		t.Error("empty dry-run result should report no changes and no warnings")
	}
	d.WouldApply = 2
	d.AddWarning(NewNoMatchWarning(0, "$"))
	if !d.HasChanges() || !d.HasWarnings() {
		t.Error("dry-run flags should reflect recorded changes and warnings")
	}
}
