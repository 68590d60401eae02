// Package overlay applies OpenAPI Overlay Specification v1.0.0 documents to
// OpenAPI specifications.
//
// An overlay is an ordered list of actions, each selecting locations in the
// document with a JSONPath target and carrying exactly one of update or
// remove. Actions apply strictly in order, and every action re-resolves its
// target against the current, possibly already-mutated document. That
// sequential semantics is load-bearing: an earlier action can create the
// very state a later action's predicate matches.
//
// # Quick Start
//
// Apply an overlay using functional options (recommended):
//
//	result, err := overlay.Apply(
//	    overlay.WithDocumentFile("openapi.yaml"),
//	    overlay.WithOverlayFile("portal-overlay.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("applied %d actions\n", result.ActionsApplied)
//
// Or use a reusable Applier instance:
//
//	a := overlay.NewApplier()
//	a.StrictTargets = true
//	result, err := a.ApplyFiles("openapi.yaml", "portal-overlay.yaml")
//
// # Merge Semantics
//
// Update actions perform a shallow key-wise merge into mapping nodes: every
// key present in the update replaces the existing key outright, whether the
// value is a scalar, an array, or a nested mapping. Arrays never deep-merge
// or append. Non-mapping locations are replaced wholesale. Remove actions
// truly delete the location from its parent: map keys are deleted and array
// elements spliced out.
//
// # The Customer-Portal Overlay
//
// The canonical workload rewrites a portal API's security declarations:
//
//	overlay: 1.0.0
//	info:
//	  title: Customer portal security
//	  version: 1.0.0
//	actions:
//	  - target: $.paths.*.*[?(!@.security)]
//	    update:
//	      security:
//	        - {}
//	  - target: $
//	    update:
//	      security:
//	        - access_token: []
//	  - target: $.components.securitySchemes
//	    update:
//	      access_token:
//	        type: http
//	        scheme: bearer
//	  - target: $.paths.*.*[?(!@.security[?(@.customer_session)])].security
//	    remove: true
//
// Note the interaction between the first and last actions: action 1 gives
// every bare operation security: [{}], and action 4's predicate is then true
// for those same operations, so it strips the just-added [{}]. The operation
// ends with no security field at all and falls back to the global
// access_token requirement from action 2. Operations that already named
// customer_session are untouched throughout.
//
// # Failure Model
//
// Apply parses each target lazily, at the moment its action is reached. A
// malformed target or a malformed action (neither or both of update/remove)
// halts the remaining actions; the returned result still carries the
// partially mutated document and everything recorded up to that point.
// There is no rollback. A target matching zero locations is not an error:
// it is skipped with a no_match warning, unless StrictTargets is set.
//
// # Validation
//
// Validation is explicit and separate from Apply:
//
//	o, _ := overlay.ParseOverlayFile("portal-overlay.yaml")
//	for _, verr := range overlay.Validate(o) {
//	    fmt.Println(verr)
//	}
package overlay
