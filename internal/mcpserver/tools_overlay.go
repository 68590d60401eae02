package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasoverlay/internal/pathutil"
	"github.com/erraggy/oasoverlay/overlay"
	"github.com/erraggy/oasoverlay/parser"
)

type overlayApplyInput struct {
	Spec    documentInput `json:"spec"               jsonschema:"The specification document to apply the overlay to"`
	Overlay documentInput `json:"overlay"            jsonschema:"The Overlay document to apply"`
	DryRun  bool          `json:"dry_run,omitempty"  jsonschema:"Preview changes without applying"`
	Strict  bool          `json:"strict,omitempty"   jsonschema:"Fail when an action target matches no nodes"`
	Output  string        `json:"output,omitempty"   jsonschema:"File path to write the result. If omitted the document is returned inline."`
}

type overlayApplyChange struct {
	ActionIndex  int      `json:"action_index"`
	Target       string   `json:"target"`
	Operation    string   `json:"operation"`
	MatchCount   int      `json:"match_count"`
	MatchedPaths []string `json:"matched_paths,omitempty"`
}

type overlayApplyOutput struct {
	ActionsApplied int                  `json:"actions_applied"`
	ActionsSkipped int                  `json:"actions_skipped"`
	Changes        []overlayApplyChange `json:"changes,omitempty"`
	Warnings       []string             `json:"warnings,omitempty"`
	WrittenTo      string               `json:"written_to,omitempty"`
	Document       string               `json:"document,omitempty"`
	Summary        string               `json:"summary"`
}

func handleOverlayApply(ctx context.Context, _ *mcp.CallToolRequest, input overlayApplyInput) (*mcp.CallToolResult, overlayApplyOutput, error) {
	specResult, err := resolveDocument(input.Spec)
	if err != nil {
		return errResult(err), overlayApplyOutput{}, nil
	}

	o, err := resolveOverlay(ctx, input.Overlay)
	if err != nil {
		return errResult(err), overlayApplyOutput{}, nil
	}

	applier := overlay.NewApplier()
	applier.StrictTargets = input.Strict

	if input.DryRun {
		return overlayDryRun(applier, specResult, o)
	}

	result, err := applier.ApplyParsed(specResult, o)
	if err != nil {
		return errResult(err), overlayApplyOutput{}, nil
	}

	output := overlayApplyOutput{
		ActionsApplied: result.ActionsApplied,
		ActionsSkipped: result.ActionsSkipped,
		Warnings:       result.Warnings.Strings(),
	}

	output.Changes = makeSlice[overlayApplyChange](len(result.Changes))
	for _, c := range result.Changes {
		output.Changes = append(output.Changes, overlayApplyChange{
			ActionIndex: c.ActionIndex,
			Target:      c.Target,
			Operation:   c.Operation,
			MatchCount:  c.MatchCount,
		})
	}

	output.Summary = applySummary(result.ActionsApplied, result.ActionsSkipped, len(result.Warnings))

	data, err := parser.MarshalDocument(result.Document, result.SourceFormat)
	if err != nil {
		return errResult(err), overlayApplyOutput{}, nil
	}

	if input.Output != "" {
		cleaned, err := pathutil.SanitizeOutputPath(input.Output)
		if err != nil {
			return errResult(err), overlayApplyOutput{}, nil
		}
		if err := os.WriteFile(cleaned, data, 0o600); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), overlayApplyOutput{}, nil
		}
		output.WrittenTo = cleaned
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}

func overlayDryRun(applier *overlay.Applier, specResult *parser.ParseResult, o *overlay.Overlay) (*mcp.CallToolResult, overlayApplyOutput, error) {
	dryResult, err := applier.DryRun(specResult, o)
	if err != nil {
		return errResult(err), overlayApplyOutput{}, nil
	}

	output := overlayApplyOutput{
		ActionsApplied: dryResult.WouldApply,
		ActionsSkipped: dryResult.WouldSkip,
		Warnings:       dryResult.Warnings.Strings(),
	}

	output.Changes = makeSlice[overlayApplyChange](len(dryResult.Proposed))
	for _, c := range dryResult.Proposed {
		output.Changes = append(output.Changes, overlayApplyChange{
			ActionIndex:  c.ActionIndex,
			Target:       c.Target,
			Operation:    c.Operation,
			MatchCount:   c.MatchCount,
			MatchedPaths: c.MatchedPaths,
		})
	}

	output.Summary = applySummary(dryResult.WouldApply, dryResult.WouldSkip, len(dryResult.Warnings)) +
		" (dry run - no changes applied)"

	return nil, output, nil
}

func applySummary(applied, skipped, warnings int) string {
	summary := formatCount(applied, "action") + " applied"
	if skipped > 0 {
		summary += ", " + formatCount(skipped, "action") + " skipped"
	}
	if warnings > 0 {
		summary += " with " + formatCount(warnings, "warning")
	}
	summary += "."
	return summary
}

// overlay_validate types and handler

type overlayValidateInput struct {
	Overlay documentInput `json:"overlay" jsonschema:"The Overlay document to validate"`
}

type overlayValidateIssue struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

type overlayValidateOutput struct {
	Valid      bool                   `json:"valid"`
	ErrorCount int                    `json:"error_count"`
	Errors     []overlayValidateIssue `json:"errors,omitempty"`
}

func handleOverlayValidate(ctx context.Context, _ *mcp.CallToolRequest, input overlayValidateInput) (*mcp.CallToolResult, overlayValidateOutput, error) {
	o, err := resolveOverlay(ctx, input.Overlay)
	if err != nil {
		return errResult(err), overlayValidateOutput{}, nil
	}

	errs := overlay.Validate(o)

	output := overlayValidateOutput{
		Valid:      len(errs) == 0,
		ErrorCount: len(errs),
	}

	output.Errors = makeSlice[overlayValidateIssue](len(errs))
	for _, e := range errs {
		output.Errors = append(output.Errors, overlayValidateIssue{
			Field:   e.Field,
			Path:    e.Path,
			Message: e.Message,
		})
	}

	return nil, output, nil
}
