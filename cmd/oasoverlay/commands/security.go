package commands

import (
	"errors"
	"flag"
	"os"
	"strings"

	oasoverlay "github.com/erraggy/oasoverlay"
	"github.com/erraggy/oasoverlay/auditor"
	"github.com/erraggy/oasoverlay/internal/maputil"
)

// SecurityFlags contains flags for the security command
type SecurityFlags struct {
	Scheme string
	Public bool
	Format string
}

// SetupSecurityFlags creates and configures a FlagSet for the security command.
// Returns the FlagSet and a SecurityFlags struct with bound flag variables.
func SetupSecurityFlags() (*flag.FlagSet, *SecurityFlags) {
	fs := flag.NewFlagSet("security", flag.ContinueOnError)
	flags := &SecurityFlags{Format: FormatText}

	fs.StringVar(&flags.Scheme, "scheme", "", "only show operations requiring this security scheme")
	fs.BoolVar(&flags.Public, "public", false, "only show operations allowing unauthenticated access")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasoverlay security [flags] <spec>\n\n")
		Writef(fs.Output(), "Report the effective security of every operation in a specification.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nEffective Security:\n")
		Writef(fs.Output(), "  - An operation's own security array wins when present\n")
		Writef(fs.Output(), "  - Otherwise the document-global security applies\n")
		Writef(fs.Output(), "  - An empty array, or one containing {}, allows unauthenticated access\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasoverlay security production.yaml\n")
		Writef(fs.Output(), "  oasoverlay security --scheme customer_session production.yaml\n")
		Writef(fs.Output(), "  oasoverlay security --public production.yaml\n")
		Writef(fs.Output(), "  oasoverlay security --format json production.yaml | jq .counts\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Report generated\n")
		Writef(fs.Output(), "  1    Audit failed\n")
		Writef(fs.Output(), "  2    Usage error\n")
	}

	return fs, flags
}

// HandleSecurity executes the security command
func HandleSecurity(args []string) error {
	fs, flags := SetupSecurityFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageErrorf("%v", err)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return usageErrorf("security command requires exactly one spec file or URL")
	}
	specPath := fs.Arg(0)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Scheme != "" && flags.Public {
		return usageErrorf("--scheme and --public are mutually exclusive")
	}

	specResult, err := parseSpecArg(specPath)
	if err != nil {
		return err
	}

	report := auditor.Audit(specResult)

	operations := report.Operations
	switch {
	case flags.Scheme != "":
		operations = report.ByScheme(flags.Scheme)
	case flags.Public:
		operations = report.Public()
	}

	if flags.Format != FormatText {
		filtered := *report
		filtered.Operations = operations
		return OutputStructured(os.Stdout, &filtered, flags.Format)
	}

	Writef(os.Stderr, "Effective Security Report\n")
	Writef(os.Stderr, "=========================\n\n")
	Writef(os.Stderr, "oasoverlay version: %s\n", oasoverlay.Version())
	Writef(os.Stderr, "Specification: %s\n\n", FormatSpecPath(specPath))

	if len(report.Schemes) > 0 {
		Writef(os.Stdout, "Security Schemes (%d):\n", len(report.Schemes))
		for _, scheme := range report.Schemes {
			line := "  " + scheme.Name
			if scheme.Type != "" {
				line += " (" + scheme.Type
				if scheme.Scheme != "" {
					line += "/" + scheme.Scheme
				}
				line += ")"
			}
			if scheme.Description != "" {
				line += " — " + scheme.Description
			}
			Writef(os.Stdout, "%s\n", line)
		}
		Writef(os.Stdout, "\n")
	}

	Writef(os.Stdout, "Operations (%d):\n", len(operations))
	for _, op := range operations {
		Writef(os.Stdout, "  %-6s %s\n", strings.ToUpper(op.Method), op.Path)
		Writef(os.Stdout, "         source: %s%s\n", op.Source, optionalSuffix(op))
		for _, req := range op.Requirements {
			Writef(os.Stdout, "         requires: %s\n", formatRequirement(req))
		}
	}

	Writef(os.Stdout, "\nSummary:\n")
	Writef(os.Stdout, "  Operations:        %d\n", report.Counts.Operations)
	Writef(os.Stdout, "  Operation-scoped:  %d\n", report.Counts.OperationScoped)
	Writef(os.Stdout, "  Global-scoped:     %d\n", report.Counts.GlobalScoped)
	Writef(os.Stdout, "  Unsecured:         %d\n", report.Counts.Unsecured)
	Writef(os.Stdout, "  Optional auth:     %d\n", report.Counts.Optional)

	return nil
}

func optionalSuffix(op auditor.OperationSecurity) string {
	if op.Optional {
		return " (unauthenticated access allowed)"
	}
	return ""
}

// formatRequirement renders one security requirement as "scheme[scopes]"
// pairs, or "{} (none)" for the empty requirement.
func formatRequirement(req map[string][]string) string {
	if len(req) == 0 {
		return "{} (none)"
	}
	parts := make([]string, 0, len(req))
	for _, scheme := range maputil.SortedKeys(req) {
		if scopes := req[scheme]; len(scopes) > 0 {
			parts = append(parts, scheme+"["+strings.Join(scopes, ", ")+"]")
		} else {
			parts = append(parts, scheme)
		}
	}
	return strings.Join(parts, " AND ")
}
