package overlay

import (
	"testing"

	"github.com/erraggy/oasoverlay/internal/doctree"
	"github.com/erraggy/oasoverlay/parser"
)

// portalActions is the canonical customer-portal security overlay: force
// every operation to declare its auth posture, install the global bearer
// requirement, register the scheme, then strip per-operation security
// unless it names customer_session.
func portalActions() []Action {
	return []Action{
		{
			Target:      "$.paths.*.*[?(!@.security)]",
			Description: "Mark operations without explicit security as optionally authenticated",
			Update: map[string]any{
				"security": []any{map[string]any{}},
			},
		},
		{
			Target:      "$",
			Description: "Require a bearer access token by default",
			Update: map[string]any{
				"security": []any{
					map[string]any{"access_token": []any{}},
				},
			},
		},
		{
			Target:      "$.components.securitySchemes",
			Description: "Register the access token scheme",
			Update: map[string]any{
				"access_token": map[string]any{
					"type":        "http",
					"scheme":      "bearer",
					"description": "You can generate an **Organization Access Token** from your organization's settings.",
				},
			},
		},
		{
			Target:      "$.paths.*.*[?(!@.security[?(@.customer_session)])].security",
			Description: "Remove security from individual paths, unless it's a customer session",
			Remove:      true,
		},
	}
}

func portalOverlay() *Overlay {
	return &Overlay{
		Version: "1.0.0",
		Info:    Info{Title: "Customer portal security", Version: "1.0.0"},
		Actions: portalActions(),
	}
}

// portalDocument builds a representative portal specification: operations
// with customer_session security, operations with an unrelated scheme, and
// operations with no security at all.
func portalDocument() map[string]any {
	return map[string]any{
		"openapi": "3.1.0",
		"info":    map[string]any{"title": "Customer Portal API", "version": "1.0.0"},
		"paths": map[string]any{
			"/v1/customer-portal/orders": map[string]any{
				"get": map[string]any{
					"operationId": "customer_portal:orders:list",
					"security":    []any{map[string]any{"customer_session": []any{}}},
				},
			},
			"/v1/customer-portal/subscriptions": map[string]any{
				"get": map[string]any{
					"operationId": "customer_portal:subscriptions:list",
					"security":    []any{map[string]any{"customer_session": []any{}}},
				},
				"patch": map[string]any{
					"operationId": "customer_portal:subscriptions:update",
					"security":    []any{map[string]any{"customer_session": []any{}}},
				},
			},
			"/v1/products": map[string]any{
				"get": map[string]any{
					"operationId": "products:list",
				},
			},
			"/v1/checkouts": map[string]any{
				"post": map[string]any{
					"operationId": "checkouts:create",
				},
			},
			"/v1/webhooks": map[string]any{
				"post": map[string]any{
					"operationId": "webhooks:receive",
					"security":    []any{map[string]any{"webhook_signature": []any{}}},
				},
			},
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"customer_session": map[string]any{
					"type":   "http",
					"scheme": "bearer",
				},
			},
		},
	}
}

func operation(t *testing.T, doc map[string]any, path, method string) map[string]any {
	t.Helper()
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatalf("document has no paths mapping")
	}
	item, ok := paths[path].(map[string]any)
	if !ok {
		t.Fatalf("no path item %q", path)
	}
	op, ok := item[method].(map[string]any)
	if !ok {
		t.Fatalf("no operation %s %s", method, path)
	}
	return op
}

func applyPortal(t *testing.T, actions []Action) map[string]any {
	t.Helper()
	o := &Overlay{
		Version: "1.0.0",
		Info:    Info{Title: "Customer portal security", Version: "1.0.0"},
		Actions: actions,
	}
	result, err := NewApplier().ApplyParsed(specResult(portalDocument()), o)
	if err != nil {
		t.Fatalf("ApplyParsed error: %v", err)
	}
	return result.Document
}

// TestPortalActionOne: every operation lacking security gets security: [{}].
func TestPortalActionOne(t *testing.T) {
	doc := applyPortal(t, portalActions()[:1])

	for _, loc := range [][2]string{{"/v1/products", "get"}, {"/v1/checkouts", "post"}} {
		op := operation(t, doc, loc[0], loc[1])
		sec, ok := op["security"].([]any)
		if !ok {
			t.Fatalf("%s %s: security = %T, want array", loc[1], loc[0], op["security"])
		}
		if len(sec) != 1 || len(sec[0].(map[string]any)) != 0 {
			t.Errorf("%s %s: security = %v, want [{}]", loc[1], loc[0], sec)
		}
	}

	// Operations that already carried security are untouched.
	op := operation(t, doc, "/v1/customer-portal/orders", "get")
	sec := op["security"].([]any)
	if _, ok := sec[0].(map[string]any)["customer_session"]; !ok {
		t.Errorf("customer_session operation touched by the no-security action: %v", sec)
	}
	webhook := operation(t, doc, "/v1/webhooks", "post")
	if _, ok := webhook["security"].([]any)[0].(map[string]any)["webhook_signature"]; !ok {
		t.Errorf("webhook operation touched by the no-security action")
	}
}

// TestPortalActionTwo: the root security requirement is installed regardless
// of prior root state.
func TestPortalActionTwo(t *testing.T) {
	run := func(t *testing.T, doc map[string]any) {
		t.Helper()
		o := &Overlay{
			Version: "1.0.0",
			Info:    Info{Title: "root", Version: "1"},
			Actions: portalActions()[1:2],
		}
		result, err := NewApplier().ApplyParsed(specResult(doc), o)
		if err != nil {
			t.Fatalf("ApplyParsed error: %v", err)
		}
		sec, ok := result.Document["security"].([]any)
		if !ok || len(sec) != 1 {
			t.Fatalf("root security = %v", result.Document["security"])
		}
		scopes, ok := sec[0].(map[string]any)["access_token"].([]any)
		if !ok || len(scopes) != 0 {
			t.Errorf("root security = %v, want [{access_token: []}]", sec)
		}
	}

	t.Run("no prior root security", func(t *testing.T) {
		run(t, portalDocument())
	})

	t.Run("prior root security replaced", func(t *testing.T) {
		doc := portalDocument()
		doc["security"] = []any{map[string]any{"legacy": []any{"read", "write"}}}
		run(t, doc)
	})
}

// TestPortalActionThree: the access_token scheme is registered alongside the
// existing schemes.
func TestPortalActionThree(t *testing.T) {
	doc := applyPortal(t, portalActions()[2:3])

	schemes := doc["components"].(map[string]any)["securitySchemes"].(map[string]any)
	tok, ok := schemes["access_token"].(map[string]any)
	if !ok {
		t.Fatalf("access_token scheme missing: %v", schemes)
	}
	if tok["type"] != "http" || tok["scheme"] != "bearer" {
		t.Errorf("access_token = %v, want type http scheme bearer", tok)
	}
	if _, ok := schemes["customer_session"]; !ok {
		t.Error("existing customer_session scheme dropped by shallow merge at the schemes mapping")
	}
}

// TestPortalFullSequence pins the order-sensitive interaction: the fourth
// action's predicate is true for the [{}] the first action just added, so
// originally-bare operations end with no security field at all and inherit
// the global access_token requirement.
func TestPortalFullSequence(t *testing.T) {
	doc := applyPortal(t, portalActions())

	t.Run("bare operations fall back to global auth", func(t *testing.T) {
		for _, loc := range [][2]string{{"/v1/products", "get"}, {"/v1/checkouts", "post"}} {
			op := operation(t, doc, loc[0], loc[1])
			if sec, ok := op["security"]; ok {
				t.Errorf("%s %s: security = %v, want the field removed entirely", loc[1], loc[0], sec)
			}
		}
	})

	t.Run("unrelated scheme stripped too", func(t *testing.T) {
		op := operation(t, doc, "/v1/webhooks", "post")
		if sec, ok := op["security"]; ok {
			t.Errorf("webhook security = %v, want removed (no customer_session entry)", sec)
		}
	})

	t.Run("customer_session operations untouched", func(t *testing.T) {
		for _, loc := range [][2]string{
			{"/v1/customer-portal/orders", "get"},
			{"/v1/customer-portal/subscriptions", "get"},
			{"/v1/customer-portal/subscriptions", "patch"},
		} {
			op := operation(t, doc, loc[0], loc[1])
			sec, ok := op["security"].([]any)
			if !ok || len(sec) != 1 {
				t.Fatalf("%s %s: security = %v", loc[1], loc[0], op["security"])
			}
			if _, ok := sec[0].(map[string]any)["customer_session"]; !ok {
				t.Errorf("%s %s: security = %v, want original customer_session entry", loc[1], loc[0], sec)
			}
		}
	})

	t.Run("global requirement and scheme installed", func(t *testing.T) {
		sec := doc["security"].([]any)
		if _, ok := sec[0].(map[string]any)["access_token"]; !ok {
			t.Errorf("root security = %v", sec)
		}
		schemes := doc["components"].(map[string]any)["securitySchemes"].(map[string]any)
		if _, ok := schemes["access_token"]; !ok {
			t.Error("access_token scheme missing after full sequence")
		}
	})
}

// TestPortalIdempotence: applying the full sequence twice yields the same
// document as applying it once.
func TestPortalIdempotence(t *testing.T) {
	a := NewApplier()

	once, err := a.ApplyParsed(specResult(portalDocument()), portalOverlay())
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}

	twice, err := a.ApplyParsed(&parser.ParseResult{
		Document:     once.Document,
		SourceFormat: parser.SourceFormatYAML,
	}, portalOverlay())
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if !doctree.Equal(once.Document, twice.Document) {
		onceData, _ := parser.MarshalDocument(once.Document, parser.SourceFormatYAML)
		twiceData, _ := parser.MarshalDocument(twice.Document, parser.SourceFormatYAML)
		t.Errorf("second application changed the document:\nonce:\n%s\ntwice:\n%s", onceData, twiceData)
	}

	onceData, err := parser.MarshalDocument(once.Document, parser.SourceFormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	twiceData, err := parser.MarshalDocument(twice.Document, parser.SourceFormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if string(onceData) != string(twiceData) {
		t.Error("marshalled forms differ between one and two applications")
	}
}

// TestPortalStatistics sanity-checks the bookkeeping for the canonical run.
func TestPortalStatistics(t *testing.T) {
	result, err := NewApplier().ApplyParsed(specResult(portalDocument()), portalOverlay())
	if err != nil {
		t.Fatalf("ApplyParsed error: %v", err)
	}

	if result.ActionsApplied != 4 {
		t.Errorf("ActionsApplied = %d, want 4: %v", result.ActionsApplied, result.Warnings.Strings())
	}
	if result.ActionsSkipped != 0 {
		t.Errorf("ActionsSkipped = %d, want 0", result.ActionsSkipped)
	}

	// Action 1 touches the two bare operations; action 4 strips those two
	// plus the webhook operation.
	if got := result.Changes[0].MatchCount; got != 2 {
		t.Errorf("action 1 MatchCount = %d, want 2", got)
	}
	if got := result.Changes[3].MatchCount; got != 3 {
		t.Errorf("action 4 MatchCount = %d, want 3", got)
	}
}
