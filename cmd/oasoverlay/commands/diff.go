package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	oasoverlay "github.com/erraggy/oasoverlay"
	"github.com/erraggy/oasoverlay/differ"
	"github.com/erraggy/oasoverlay/overlay"
)

// DiffFlags contains flags for the diff command
type DiffFlags struct {
	Paths bool
	Quiet bool
}

// SetupDiffFlags creates and configures a FlagSet for the diff command.
// Returns the FlagSet and a DiffFlags struct with bound flag variables.
func SetupDiffFlags() (*flag.FlagSet, *DiffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &DiffFlags{}

	fs.BoolVar(&flags.Paths, "paths", false, "print the changed paths instead of the merge patch")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the patch or path list")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the patch or path list")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasoverlay diff [flags] <spec> <overlay>\n\n")
		Writef(fs.Output(), "Apply an overlay to a copy of a specification and show the delta.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nOutput:\n")
		Writef(fs.Output(), "  Default    An RFC 7386 JSON merge patch on stdout\n")
		Writef(fs.Output(), "  --paths    One changed path per line, prefixed with added/removed/modified\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasoverlay diff openapi.yaml changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay diff --paths openapi.yaml changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay diff openapi.yaml changes.yaml | jq .\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Diff computed (including an empty diff)\n")
		Writef(fs.Output(), "  1    Diff failed\n")
		Writef(fs.Output(), "  2    Usage error\n")
	}

	return fs, flags
}

// HandleDiff executes the diff command
func HandleDiff(args []string) error {
	fs, flags := SetupDiffFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageErrorf("%v", err)
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return usageErrorf("diff command requires exactly a spec and an overlay file")
	}
	specPath := fs.Arg(0)
	overlayPath := fs.Arg(1)

	startTime := time.Now()
	specResult, err := parseSpecArg(specPath)
	if err != nil {
		return err
	}
	o, err := parseOverlayArg(overlayPath)
	if err != nil {
		return err
	}

	// ApplyParsed works on a deep copy; specResult keeps the original tree
	// to diff against.
	applied, err := overlay.NewApplier().ApplyParsed(specResult, o)
	if err != nil {
		return fmt.Errorf("applying overlay: %w", err)
	}

	result, err := differ.Diff(specResult.Document, applied.Document)
	if err != nil {
		return fmt.Errorf("computing diff: %w", err)
	}
	totalTime := time.Since(startTime)

	if !flags.Quiet {
		Writef(os.Stderr, "OpenAPI Overlay Diff\n")
		Writef(os.Stderr, "====================\n\n")
		Writef(os.Stderr, "oasoverlay version: %s\n", oasoverlay.Version())
		Writef(os.Stderr, "Specification: %s\n", FormatSpecPath(specPath))
		Writef(os.Stderr, "Overlay: %s\n", overlayPath)
		Writef(os.Stderr, "Total Time: %v\n\n", totalTime)

		if result.Identical {
			Writef(os.Stderr, "✓ Overlay produces no changes\n")
		} else {
			Writef(os.Stderr, "Changed paths: %d\n", len(result.Changed))
		}
	}

	if flags.Paths {
		for _, change := range result.Changed {
			fmt.Println(change.String())
		}
		return nil
	}

	fmt.Println(string(result.Patch))
	return nil
}
