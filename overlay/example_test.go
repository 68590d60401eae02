package overlay_test

import (
	"fmt"
	"log"

	"github.com/erraggy/oasoverlay/overlay"
	"github.com/erraggy/oasoverlay/parser"
)

func ExampleApply() {
	spec := []byte(`
openapi: 3.1.0
info:
  title: Customer Portal API
  version: 1.0.0
paths:
  /v1/products:
    get:
      operationId: products:list
  /v1/customer-portal/orders:
    get:
      operationId: customer_portal:orders:list
      security:
        - customer_session: []
components:
  securitySchemes:
    customer_session:
      type: http
      scheme: bearer
`)
	overlayDoc := []byte(`
overlay: 1.0.0
info:
  title: Customer portal security
  version: 1.0.0
actions:
  - target: $.paths.*.*[?(!@.security)]
    update:
      security:
        - {}
  - target: $
    update:
      security:
        - access_token: []
  - target: $.components.securitySchemes
    update:
      access_token:
        type: http
        scheme: bearer
  - target: $.paths.*.*[?(!@.security[?(@.customer_session)])].security
    remove: true
`)

	parsed, err := parser.New().ParseBytes(spec)
	if err != nil {
		log.Fatal(err)
	}
	o, err := overlay.ParseOverlay(overlayDoc)
	if err != nil {
		log.Fatal(err)
	}

	result, err := overlay.Apply(
		overlay.WithDocumentParsed(parsed),
		overlay.WithOverlayParsed(o),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("applied %d actions\n", result.ActionsApplied)

	// The bare operation lost the [{}] the first action gave it and now
	// inherits the global access_token requirement.
	op := result.Document["paths"].(map[string]any)["/v1/products"].(map[string]any)["get"].(map[string]any)
	_, hasSecurity := op["security"]
	fmt.Printf("products:list has operation-level security: %v\n", hasSecurity)

	// Output:
	// applied 4 actions
	// products:list has operation-level security: false
}

func ExampleApplier_DryRun() {
	spec := []byte(`
openapi: 3.1.0
info:
  title: Minimal
  version: 1.0.0
paths:
  /ping:
    get:
      operationId: ping
`)
	parsed, err := parser.New().ParseBytes(spec)
	if err != nil {
		log.Fatal(err)
	}

	o := &overlay.Overlay{
		Version: "1.0.0",
		Info:    overlay.Info{Title: "Preview", Version: "1"},
		Actions: []overlay.Action{
			{Target: "$.paths.*.*", Update: map[string]any{"deprecated": true}},
			{Target: "$.servers", Remove: true},
		},
	}

	result, err := overlay.NewApplier().DryRun(parsed, o)
	if err != nil {
		log.Fatal(err)
	}

	for _, change := range result.Proposed {
		fmt.Printf("would %s %d node(s) at %s\n", change.Operation, change.MatchCount, change.Target)
	}
	fmt.Printf("skipped: %d\n", result.WouldSkip)

	// Output:
	// would update 1 node(s) at $.paths.*.*
	// skipped: 1
}

func ExampleValidate() {
	o := &overlay.Overlay{
		Version: "1.0.0",
		Info:    overlay.Info{Title: "Broken", Version: "1"},
		Actions: []overlay.Action{
			{Target: "$.info"}, // neither update nor remove
		},
	}

	for _, err := range overlay.Validate(o) {
		fmt.Println(err)
	}

	// Output:
	// validation error at actions[0]: action must carry exactly one of update or remove
}
