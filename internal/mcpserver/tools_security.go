package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasoverlay/auditor"
)

type securityAuditInput struct {
	Spec       documentInput `json:"spec"                  jsonschema:"The specification document to audit"`
	Scheme     string        `json:"scheme,omitempty"      jsonschema:"Only report operations requiring this security scheme"`
	PublicOnly bool          `json:"public_only,omitempty" jsonschema:"Only report operations allowing unauthenticated access"`
}

type securityAuditOutput struct {
	Schemes    []auditor.SchemeInfo        `json:"schemes,omitempty"`
	Operations []auditor.OperationSecurity `json:"operations,omitempty"`
	Counts     auditor.Counts              `json:"counts"`
	Summary    string                      `json:"summary"`
}

func handleSecurityAudit(_ context.Context, _ *mcp.CallToolRequest, input securityAuditInput) (*mcp.CallToolResult, securityAuditOutput, error) {
	specResult, err := resolveDocument(input.Spec)
	if err != nil {
		return errResult(err), securityAuditOutput{}, nil
	}

	report := auditor.Audit(specResult)

	output := securityAuditOutput{
		Schemes:    report.Schemes,
		Operations: report.Operations,
		Counts:     report.Counts,
	}

	switch {
	case input.Scheme != "":
		output.Operations = report.ByScheme(input.Scheme)
	case input.PublicOnly:
		output.Operations = report.Public()
	}

	output.Summary = formatCount(report.Counts.Operations, "operation") + " audited, " +
		formatCount(report.Counts.Optional, "operation") + " allow unauthenticated access"

	return nil, output, nil
}
