// Package oasoverlay applies OpenAPI Overlay documents to OpenAPI specifications,
// with a focus on rewriting security declarations ahead of client code generation.
//
// An overlay is an ordered list of actions, each pairing a JSONPath-style target
// expression with either an update (a partial value merged at every matched
// location) or a remove (every matched location is deleted from its parent).
// Actions apply strictly in document order and every action re-resolves its
// target against the current, possibly already-mutated document, so
// order-sensitive interactions between actions are preserved exactly.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - overlay: parse, validate, apply, and dry-run overlay documents
//   - parser: load and marshal OpenAPI documents in YAML or JSON
//   - differ: compute merge-patch diffs between original and transformed documents
//   - auditor: report the effective security posture of every operation
//   - oaserrors: structured error types shared across the module
//
// A command-line interface lives under cmd/oasoverlay, and the same operations
// are exposed to agent tooling through an MCP stdio server (oasoverlay mcp).
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/oasoverlay
//
// # Quick Start
//
// Apply an overlay to a specification:
//
//	import "github.com/erraggy/oasoverlay/overlay"
//
//	result, err := overlay.Apply(
//		overlay.WithDocumentFile("openapi.yaml"),
//		overlay.WithOverlayFile("portal-overlay.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Applied %d action(s), skipped %d\n",
//		result.ActionsApplied, result.ActionsSkipped)
//
// Preview changes without mutating anything:
//
//	dry, err := overlay.DryRun(
//		overlay.WithDocumentFile("openapi.yaml"),
//		overlay.WithOverlayFile("portal-overlay.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, change := range dry.Proposed {
//		fmt.Printf("%s %d node(s) at %s\n",
//			change.Operation, change.MatchCount, change.Target)
//	}
//
// # Overlay Package
//
// The overlay package implements the OpenAPI Overlay Specification 1.0.0
// action model. Update actions perform a shallow key-wise merge: keys present
// in the update value replace the existing keys outright, whether the existing
// value is a scalar, an array, or a nested mapping. Arrays are never merged
// element-wise. Remove actions delete each matched node from its parent
// container.
//
// Target expressions support root selection ($), child and wildcard segments,
// numeric indexes, and filter predicates testing field presence (@.field),
// absence (!@.field), comparisons, and nested existence queries such as
// [?(@.security[?(@.customer_session)])].
//
// A target matching zero locations is not an error; the action is skipped and
// recorded as a warning on the result. A malformed target halts the remaining
// actions and leaves the document in its partially transformed state.
//
// # Parser Package
//
// The parser package loads OpenAPI documents from files, readers, byte slices,
// or URLs, detecting YAML versus JSON from the path and content. It exposes the
// parsed tree as plain map/slice/scalar values, collects lightweight document
// statistics, and marshals transformed documents back out in the source format.
//
// # Differ Package
//
// The differ package compares an original document against its transformed
// counterpart, producing an RFC 7386 merge patch plus a flat list of changed
// paths. The CLI diff command and the dry-run report both build on it.
//
// # Auditor Package
//
// The auditor package walks every operation in a document and reports its
// effective security: the operation's own security requirements when present,
// otherwise the document-global requirements, with explicitly-optional ([{}])
// operations called out. It answers "what auth does each endpoint actually
// demand" after an overlay has been applied.
//
// # Command Line
//
// The oasoverlay command exposes the library:
//
//	oasoverlay apply openapi.yaml overlay.yaml -o patched.yaml
//	oasoverlay apply openapi.yaml overlay.yaml --dry-run
//	oasoverlay validate overlay.yaml
//	oasoverlay diff openapi.yaml overlay.yaml
//	oasoverlay security patched.yaml
//	oasoverlay describe overlay.yaml --html
//	oasoverlay mcp
//
// Run oasoverlay help for full usage.
package oasoverlay
