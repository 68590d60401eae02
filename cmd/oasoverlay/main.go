package main

import (
	"errors"
	"fmt"
	"os"

	oasoverlay "github.com/erraggy/oasoverlay"
	"github.com/erraggy/oasoverlay/cmd/oasoverlay/commands"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "version", "-v", "--version":
		fmt.Printf("oasoverlay v%s\n", oasoverlay.Version())
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	case "apply":
		err = commands.HandleApply(args[1:])
	case "validate":
		err = commands.HandleValidate(args[1:])
	case "diff":
		err = commands.HandleDiff(args[1:])
	case "security":
		err = commands.HandleSecurity(args[1:])
	case "describe":
		err = commands.HandleDescribe(args[1:])
	case "mcp":
		err = commands.HandleMCP(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(os.Stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usageErr *commands.UsageError
		if errors.As(err, &usageErr) {
			return 2
		}
		return 1
	}
	return 0
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, `oasoverlay - OpenAPI Overlay Tools

Usage:
  oasoverlay <command> [options]

Commands:
  apply       Apply an overlay document to an OpenAPI specification
  validate    Validate one or more overlay documents
  diff        Show the delta an overlay would produce as a merge patch
  security    Report the effective security of every operation
  describe    Render a human-readable walkthrough of an overlay
  mcp         Run the MCP stdio server
  version     Show version information
  help        Show this help message

Examples:
  oasoverlay apply openapi.yaml portal-overlay.yaml -o production.yaml
  oasoverlay apply --dry-run openapi.yaml portal-overlay.yaml
  cat openapi.yaml | oasoverlay apply - portal-overlay.yaml
  oasoverlay validate portal-overlay.yaml staging-overlay.yaml
  oasoverlay diff --paths openapi.yaml portal-overlay.yaml
  oasoverlay security --public production.yaml
  oasoverlay describe --html portal-overlay.yaml

Exit Codes:
  0    Success
  1    Operation failed
  2    Usage error

Run 'oasoverlay <command> --help' for more information on a command.`)
}
