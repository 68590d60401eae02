package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasoverlay/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasoverlay mcp\n\n")
		Writef(fs.Output(), "Run the MCP (Model Context Protocol) server over stdio.\n\n")
		Writef(fs.Output(), "Tools exposed: overlay_apply, overlay_validate, overlay_diff, security_audit.\n\n")
		Writef(fs.Output(), "Configuration (environment variables):\n")
		Writef(fs.Output(), "  OASOVERLAY_MCP_CACHE_TTL         parse cache TTL (default 15m)\n")
		Writef(fs.Output(), "  OASOVERLAY_MCP_CACHE_SIZE        parse cache capacity (default 16)\n")
		Writef(fs.Output(), "  OASOVERLAY_MCP_MAX_INPUT_BYTES   inline/fetched input cap (default 10485760)\n")
		Writef(fs.Output(), "  OASOVERLAY_MCP_FETCH_TIMEOUT     URL fetch timeout (default 30s)\n")
		Writef(fs.Output(), "  OASOVERLAY_LOG_LEVEL             stderr log level (default info)\n")
		Writef(fs.Output(), "\nExample MCP client config:\n")
		Writef(fs.Output(), "  {\"command\": \"oasoverlay\", \"args\": [\"mcp\"]}\n")
	}

	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageErrorf("%v", err)
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return usageErrorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
