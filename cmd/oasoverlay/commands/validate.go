package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	oasoverlay "github.com/erraggy/oasoverlay"
	"github.com/erraggy/oasoverlay/overlay"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Quiet bool
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no per-file diagnostics, exit code only")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no per-file diagnostics, exit code only")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasoverlay validate [flags] <overlay-file>...\n\n")
		Writef(fs.Output(), "Validate one or more OpenAPI overlay documents.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasoverlay validate changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay validate portal-overlay.yaml staging-overlay.yaml\n")
		Writef(fs.Output(), "  oasoverlay validate --quiet production-overlay.yaml\n")
		Writef(fs.Output(), "\nValidation Checks:\n")
		Writef(fs.Output(), "  - overlay version is present and supported (1.0.0)\n")
		Writef(fs.Output(), "  - info.title and info.version are present\n")
		Writef(fs.Output(), "  - at least one action is defined\n")
		Writef(fs.Output(), "  - each action has a target with valid JSONPath syntax\n")
		Writef(fs.Output(), "  - each action carries exactly one of update or remove\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    All overlays are valid\n")
		Writef(fs.Output(), "  1    At least one overlay is invalid or unreadable\n")
		Writef(fs.Output(), "  2    Usage error\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageErrorf("%v", err)
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return usageErrorf("validate command requires at least one overlay file")
	}

	if !flags.Quiet {
		Writef(os.Stderr, "OpenAPI Overlay Validation\n")
		Writef(os.Stderr, "===========================\n\n")
		Writef(os.Stderr, "oasoverlay version: %s\n\n", oasoverlay.Version())
	}

	invalid := 0
	for _, overlayPath := range fs.Args() {
		if !validateOne(overlayPath, flags.Quiet) {
			invalid++
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d overlay(s) invalid", invalid, fs.NArg())
	}
	return nil
}

// validateOne validates a single overlay file and reports the result.
// Returns false when the file fails to parse or validate.
func validateOne(overlayPath string, quiet bool) bool {
	o, err := overlay.ParseOverlayFile(overlayPath)
	if err != nil {
		if !quiet {
			Writef(os.Stderr, "✗ %s: %v\n", overlayPath, err)
		}
		return false
	}

	errs := overlay.Validate(o)
	if len(errs) > 0 {
		if !quiet {
			Writef(os.Stderr, "✗ %s: %d error(s)\n", overlayPath, len(errs))
			for _, ve := range errs {
				Writef(os.Stderr, "    - %s\n", ve.Error())
			}
		}
		return false
	}

	if !quiet {
		Writef(os.Stderr, "✓ %s: %q v%s, %d action(s)\n", overlayPath, o.Info.Title, o.Info.Version, len(o.Actions))
		if o.Extends != "" {
			Writef(os.Stderr, "    extends: %s\n", o.Extends)
		}
	}
	return true
}
