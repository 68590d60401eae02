// Package parser loads OpenAPI specification documents for overlay
// processing.
//
// Unlike typed OpenAPI parsers, this package deliberately keeps documents
// as generic map[string]any trees. Overlay application must round-trip
// every field the source document carried, including vendor extensions and
// fields from future spec versions, so nothing is ever decoded into a
// struct that could drop unknown keys.
//
// The parser supports OAS 2.0 through 3.2.0 in YAML and JSON, loaded from
// local files, URLs, readers, or byte slices.
//
// # Quick Start
//
// Parse a file using functional options:
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Version, result.Stats.OperationCount)
//
// Parse from a URL:
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("https://example.com/api/openapi.yaml"),
//	)
//
// Or create a reusable Parser instance:
//
//	p := parser.New()
//	before, _ := p.Parse("api.yaml")
//	after, _ := p.Parse("https://example.com/api.yaml")
//
// # Round-tripping
//
// ParseResult records the detected source format, and Marshal writes the
// document back out in that same format:
//
//	data, err := result.Marshal()
//
// # Validation
//
// With ValidateStructure enabled (the default), basic sanity checks run on
// the document root and land in ParseResult.Errors as
// *oaserrors.ValidationError values. Parsing itself only fails for
// unreadable input, size-limit violations, or undetectable versions.
package parser
