package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	oasoverlay "github.com/erraggy/oasoverlay"
	"github.com/erraggy/oasoverlay/overlay"
	"github.com/erraggy/oasoverlay/parser"
)

// ApplyFlags contains flags for the apply command
type ApplyFlags struct {
	Output string
	DryRun bool
	Strict bool
	Quiet  bool
	Format string
	Watch  bool
}

// SetupApplyFlags creates and configures a FlagSet for the apply command.
// Returns the FlagSet and an ApplyFlags struct with bound flag variables.
func SetupApplyFlags() (*flag.FlagSet, *ApplyFlags) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	flags := &ApplyFlags{Format: FormatText}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "preview changes without applying")
	fs.BoolVar(&flags.DryRun, "n", false, "preview changes without applying")
	fs.BoolVar(&flags.Strict, "strict", false, "fail if any action target matches no nodes")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.StringVar(&flags.Format, "format", FormatText, "report format: text, json, or yaml")
	fs.BoolVar(&flags.Watch, "watch", false, "re-apply whenever the spec or overlay file changes")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasoverlay apply [flags] <spec> <overlay>\n\n")
		Writef(fs.Output(), "Apply an overlay document to an OpenAPI specification.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasoverlay apply openapi.yaml changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay apply -o production.yaml openapi.yaml changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay apply --dry-run openapi.yaml changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay apply --strict openapi.yaml changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay apply --watch -o production.yaml openapi.yaml changes.yaml\n")
		Writef(fs.Output(), "  cat openapi.yaml | oasoverlay apply - changes.yaml\n")
		Writef(fs.Output(), "\nPipelining:\n")
		Writef(fs.Output(), "  - Use '-' as the spec path to read from stdin\n")
		Writef(fs.Output(), "  - Use --quiet/-q to suppress diagnostic output for pipelining\n")
		Writef(fs.Output(), "  - The report goes to stderr; the document goes to stdout or -o\n")
		Writef(fs.Output(), "\nNotes:\n")
		Writef(fs.Output(), "  - Actions are applied sequentially in order\n")
		Writef(fs.Output(), "  - Update actions shallow-merge content; remove actions delete matched nodes\n")
		Writef(fs.Output(), "  - A malformed target halts at that action; prior changes are kept\n")
		Writef(fs.Output(), "  - Use --strict to fail if any target matches nothing\n")
		Writef(fs.Output(), "  - Output files are written with restrictive permissions (0600)\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Overlay applied successfully\n")
		Writef(fs.Output(), "  1    Overlay application failed\n")
		Writef(fs.Output(), "  2    Usage error\n")
	}

	return fs, flags
}

// HandleApply executes the apply command
func HandleApply(args []string) error {
	fs, flags := SetupApplyFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageErrorf("%v", err)
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return usageErrorf("apply command requires exactly a spec and an overlay file")
	}
	specPath := fs.Arg(0)
	overlayPath := fs.Arg(1)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	if flags.Watch {
		if specPath == StdinFilePath {
			return usageErrorf("--watch cannot be combined with a stdin spec")
		}
		return runWatch(specPath, overlayPath, flags)
	}

	return applyOnce(specPath, overlayPath, flags)
}

// applyOnce runs a single apply (or dry-run) pass.
func applyOnce(specPath, overlayPath string, flags *ApplyFlags) error {
	startTime := time.Now()

	var opts []overlay.Option
	if specPath == StdinFilePath {
		parseResult, err := parseSpecArg(specPath)
		if err != nil {
			return err
		}
		opts = append(opts, overlay.WithDocumentParsed(parseResult))
	} else {
		opts = append(opts, overlay.WithDocumentFile(specPath))
	}
	opts = append(opts,
		overlay.WithOverlayFile(overlayPath),
		overlay.WithStrictTargets(flags.Strict),
	)

	if flags.DryRun {
		return applyDryRun(opts, flags, specPath, overlayPath, startTime)
	}

	result, err := overlay.Apply(opts...)
	if err != nil {
		return fmt.Errorf("applying overlay: %w", err)
	}
	totalTime := time.Since(startTime)

	if !flags.Quiet {
		if flags.Format == FormatText {
			printApplyReport(specPath, overlayPath, result, totalTime)
		} else {
			if err := OutputStructured(os.Stderr, newApplyReport(specPath, overlayPath, result), flags.Format); err != nil {
				return err
			}
		}
	}

	data, err := parser.MarshalDocument(result.Document, result.SourceFormat)
	if err != nil {
		return fmt.Errorf("marshaling result document: %w", err)
	}
	if err := WriteDocument(flags.Output, data); err != nil {
		return err
	}
	if flags.Output != "" && !flags.Quiet {
		Writef(os.Stderr, "\nOutput written to: %s\n", flags.Output)
	}

	return nil
}

func printApplyReport(specPath, overlayPath string, result *overlay.ApplyResult, totalTime time.Duration) {
	Writef(os.Stderr, "OpenAPI Overlay Application\n")
	Writef(os.Stderr, "============================\n\n")
	Writef(os.Stderr, "oasoverlay version: %s\n", oasoverlay.Version())
	Writef(os.Stderr, "Specification: %s\n", FormatSpecPath(specPath))
	Writef(os.Stderr, "Overlay: %s\n", overlayPath)
	Writef(os.Stderr, "Total Time: %v\n\n", totalTime)

	Writef(os.Stderr, "Actions applied: %d\n", result.ActionsApplied)
	Writef(os.Stderr, "Actions skipped: %d\n", result.ActionsSkipped)

	if len(result.Warnings) > 0 {
		Writef(os.Stderr, "\nWarnings:\n")
		for _, warning := range result.Warnings {
			Writef(os.Stderr, "  - %s\n", warning)
		}
	}

	if len(result.Changes) > 0 {
		Writef(os.Stderr, "\nChanges:\n")
		for _, change := range result.Changes {
			Writef(os.Stderr, "  [%d] %s: %s (%d match(es))\n",
				change.ActionIndex, change.Operation, change.Target, change.MatchCount)
		}
	}

	Writef(os.Stderr, "\n")
	if result.ActionsSkipped == 0 {
		Writef(os.Stderr, "✓ Overlay applied successfully\n")
	} else {
		Writef(os.Stderr, "✓ Overlay applied with %d skipped action(s)\n", result.ActionsSkipped)
	}
}

// applyReport is the structured (json/yaml) form of the apply report.
type applyReport struct {
	Spec           string             `yaml:"spec" json:"spec"`
	Overlay        string             `yaml:"overlay" json:"overlay"`
	ActionsApplied int                `yaml:"actionsApplied" json:"actionsApplied"`
	ActionsSkipped int                `yaml:"actionsSkipped" json:"actionsSkipped"`
	Changes        []applyReportEntry `yaml:"changes,omitempty" json:"changes,omitempty"`
	Warnings       []string           `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

type applyReportEntry struct {
	ActionIndex int    `yaml:"actionIndex" json:"actionIndex"`
	Target      string `yaml:"target" json:"target"`
	Operation   string `yaml:"operation" json:"operation"`
	MatchCount  int    `yaml:"matchCount" json:"matchCount"`
}

func newApplyReport(specPath, overlayPath string, result *overlay.ApplyResult) applyReport {
	report := applyReport{
		Spec:           FormatSpecPath(specPath),
		Overlay:        overlayPath,
		ActionsApplied: result.ActionsApplied,
		ActionsSkipped: result.ActionsSkipped,
		Warnings:       result.Warnings.Strings(),
	}
	for _, change := range result.Changes {
		report.Changes = append(report.Changes, applyReportEntry{
			ActionIndex: change.ActionIndex,
			Target:      change.Target,
			Operation:   change.Operation,
			MatchCount:  change.MatchCount,
		})
	}
	return report
}

func applyDryRun(opts []overlay.Option, flags *ApplyFlags, specPath, overlayPath string, startTime time.Time) error {
	dryResult, err := overlay.DryRun(opts...)
	if err != nil {
		return fmt.Errorf("dry-run overlay: %w", err)
	}
	totalTime := time.Since(startTime)

	if flags.Quiet {
		return nil
	}

	if flags.Format != FormatText {
		return OutputStructured(os.Stderr, dryRunReport{
			Spec:       FormatSpecPath(specPath),
			Overlay:    overlayPath,
			WouldApply: dryResult.WouldApply,
			WouldSkip:  dryResult.WouldSkip,
			Proposed:   dryResult.Proposed,
			Warnings:   dryResult.Warnings.Strings(),
		}, flags.Format)
	}

	Writef(os.Stderr, "OpenAPI Overlay Dry Run\n")
	Writef(os.Stderr, "=======================\n\n")
	Writef(os.Stderr, "oasoverlay version: %s\n", oasoverlay.Version())
	Writef(os.Stderr, "Specification: %s\n", FormatSpecPath(specPath))
	Writef(os.Stderr, "Overlay: %s\n", overlayPath)
	Writef(os.Stderr, "Total Time: %v\n\n", totalTime)

	Writef(os.Stderr, "Would apply: %d action(s)\n", dryResult.WouldApply)
	Writef(os.Stderr, "Would skip:  %d action(s)\n", dryResult.WouldSkip)

	if len(dryResult.Proposed) > 0 {
		Writef(os.Stderr, "\nProposed Changes:\n")
		for _, change := range dryResult.Proposed {
			desc := change.Description
			if desc == "" {
				desc = change.Target
			}
			Writef(os.Stderr, "  [%d] %s: %s (%d match(es))\n",
				change.ActionIndex, change.Operation, desc, change.MatchCount)
			for _, path := range change.MatchedPaths {
				Writef(os.Stderr, "       → %s\n", path)
			}
		}
	}

	if len(dryResult.Warnings) > 0 {
		Writef(os.Stderr, "\nWarnings:\n")
		for _, warning := range dryResult.Warnings {
			Writef(os.Stderr, "  - %s\n", warning)
		}
	}

	Writef(os.Stderr, "\n")
	if dryResult.HasChanges() {
		Writef(os.Stderr, "ℹ️  No changes were made (dry-run mode)\n")
	} else {
		Writef(os.Stderr, "ℹ️  No changes would be made\n")
	}

	return nil
}

// dryRunReport is the structured (json/yaml) form of the dry-run report.
type dryRunReport struct {
	Spec       string                   `yaml:"spec" json:"spec"`
	Overlay    string                   `yaml:"overlay" json:"overlay"`
	WouldApply int                      `yaml:"wouldApply" json:"wouldApply"`
	WouldSkip  int                      `yaml:"wouldSkip" json:"wouldSkip"`
	Proposed   []overlay.ProposedChange `yaml:"proposed,omitempty" json:"proposed,omitempty"`
	Warnings   []string                 `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}
