package commands

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasoverlay/overlay"
)

// DescribeFlags contains flags for the describe command
type DescribeFlags struct {
	HTML   bool
	Output string
}

// SetupDescribeFlags creates and configures a FlagSet for the describe command.
// Returns the FlagSet and a DescribeFlags struct with bound flag variables.
func SetupDescribeFlags() (*flag.FlagSet, *DescribeFlags) {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	flags := &DescribeFlags{}

	fs.BoolVar(&flags.HTML, "html", false, "render the walkthrough as HTML instead of Markdown")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasoverlay describe [flags] <overlay-file>\n\n")
		Writef(fs.Output(), "Render a human-readable walkthrough of an overlay's actions.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasoverlay describe changes.yaml\n")
		Writef(fs.Output(), "  oasoverlay describe --html -o changes.html changes.yaml\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Walkthrough rendered\n")
		Writef(fs.Output(), "  1    Overlay could not be read\n")
		Writef(fs.Output(), "  2    Usage error\n")
	}

	return fs, flags
}

// HandleDescribe executes the describe command
func HandleDescribe(args []string) error {
	fs, flags := SetupDescribeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageErrorf("%v", err)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return usageErrorf("describe command requires exactly one overlay file")
	}
	overlayPath := fs.Arg(0)

	o, err := parseOverlayArg(overlayPath)
	if err != nil {
		return err
	}

	markdown := describeMarkdown(o)

	output := []byte(markdown)
	if flags.HTML {
		var buf bytes.Buffer
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		if err := md.Convert([]byte(markdown), &buf); err != nil {
			return fmt.Errorf("rendering HTML: %w", err)
		}
		output = buf.Bytes()
	}

	return WriteDocument(flags.Output, output)
}

// describeMarkdown renders an overlay as a GFM walkthrough: metadata, an
// action summary table, and a per-action detail section.
func describeMarkdown(o *overlay.Overlay) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", o.Info.Title)
	fmt.Fprintf(&b, "- Overlay version: %s\n", o.Version)
	fmt.Fprintf(&b, "- Document version: %s\n", o.Info.Version)
	if o.Extends != "" {
		fmt.Fprintf(&b, "- Extends: %s\n", o.Extends)
	}
	fmt.Fprintf(&b, "- Actions: %d\n\n", len(o.Actions))

	b.WriteString("| # | Operation | Target |\n")
	b.WriteString("|---|-----------|--------|\n")
	for i, action := range o.Actions {
		op := action.Operation()
		if op == "" {
			op = "invalid"
		}
		fmt.Fprintf(&b, "| %d | %s | `%s` |\n", i+1, op, action.Target)
	}
	b.WriteString("\n")

	b.WriteString("## Actions\n\n")
	b.WriteString("Actions apply in order; each one sees the document produced by the actions before it.\n\n")
	for i, action := range o.Actions {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, actionHeading(action))
		if action.Description != "" {
			b.WriteString(action.Description)
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Target: `%s`\n\n", action.Target)
		if update := formatUpdate(action.Update); update != "" {
			b.WriteString("Merges:\n\n```yaml\n")
			b.WriteString(update)
			b.WriteString("```\n\n")
		}
	}

	return b.String()
}

func actionHeading(action overlay.Action) string {
	switch action.Operation() {
	case "remove":
		return "Remove matched nodes"
	case "update":
		return "Update matched nodes"
	default:
		return "Invalid action"
	}
}

// formatUpdate renders an update value as YAML for the walkthrough.
// Marshal failures yield an empty string; describe is best-effort output.
func formatUpdate(update any) string {
	if update == nil {
		return ""
	}
	data, err := yaml.Marshal(update)
	if err != nil {
		return ""
	}
	return string(data)
}
