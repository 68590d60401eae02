package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasoverlay/differ"
	"github.com/erraggy/oasoverlay/overlay"
)

type overlayDiffInput struct {
	Spec    documentInput `json:"spec"    jsonschema:"The specification document to diff against"`
	Overlay documentInput `json:"overlay" jsonschema:"The Overlay document whose effect to compute"`
}

type overlayDiffChange struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

type overlayDiffOutput struct {
	Identical bool                `json:"identical"`
	Patch     string              `json:"patch"`
	Changes   []overlayDiffChange `json:"changes,omitempty"`
	Summary   string              `json:"summary"`
}

func handleOverlayDiff(ctx context.Context, _ *mcp.CallToolRequest, input overlayDiffInput) (*mcp.CallToolResult, overlayDiffOutput, error) {
	specResult, err := resolveDocument(input.Spec)
	if err != nil {
		return errResult(err), overlayDiffOutput{}, nil
	}

	o, err := resolveOverlay(ctx, input.Overlay)
	if err != nil {
		return errResult(err), overlayDiffOutput{}, nil
	}

	// ApplyParsed works on a deep copy, so the cached document is untouched.
	applied, err := overlay.NewApplier().ApplyParsed(specResult, o)
	if err != nil {
		return errResult(err), overlayDiffOutput{}, nil
	}

	diff, err := differ.Diff(specResult.Document, applied.Document)
	if err != nil {
		return errResult(err), overlayDiffOutput{}, nil
	}

	output := overlayDiffOutput{
		Identical: diff.Identical,
		Patch:     string(diff.Patch),
	}

	output.Changes = makeSlice[overlayDiffChange](len(diff.Changed))
	for _, c := range diff.Changed {
		output.Changes = append(output.Changes, overlayDiffChange{
			Path: c.Path,
			Kind: string(c.Kind),
		})
	}

	if diff.Identical {
		output.Summary = "overlay produces no changes"
	} else {
		output.Summary = formatCount(len(diff.Changed), "changed path")
	}

	return nil, output, nil
}
