// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes overlay application, validation, diffing, and security auditing
// as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	oasoverlay "github.com/erraggy/oasoverlay"
)

const serverInstructions = `oasoverlay MCP server — applies, validates, diffs, and audits OpenAPI Overlay documents.

Configuration: defaults are configurable via OASOVERLAY_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASOVERLAY_MCP_CACHE_TTL (default: 15m) — parse cache TTL
- OASOVERLAY_MCP_CACHE_SIZE (default: 16) — parse cache capacity
- OASOVERLAY_MCP_MAX_INPUT_BYTES (default: 10485760) — inline/fetched input cap
- OASOVERLAY_MCP_FETCH_TIMEOUT (default: 30s) — URL fetch timeout
- OASOVERLAY_LOG_LEVEL (default: info) — stderr log level

Caching: parsed specification documents are cached per session. File entries are keyed by path+mtime (auto-invalidated on change); a background sweeper removes expired entries. Overlay documents are never cached.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasoverlay", Version: oasoverlay.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerTools(server)

	logger.Debug("mcp server starting", "cacheEnabled", cfg.CacheEnabled, "cacheTTL", cfg.CacheTTL)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "overlay_apply",
		Description: "Apply an OpenAPI Overlay document to a specification. Actions run sequentially; update actions shallow-merge content into matched nodes, remove actions delete them. Use dry_run=true to preview the proposed changes without applying. Use output to write the transformed document to a file instead of returning it inline.",
	}, handleOverlayApply)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "overlay_validate",
		Description: "Validate an Overlay document's structure: supported version, required info fields, at least one action, parseable JSONPath targets, and exactly one of update/remove per action.",
	}, handleOverlayValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "overlay_diff",
		Description: "Apply an Overlay to a copy of a specification and report the delta as an RFC 7386 JSON merge patch plus a flat list of changed paths. The original document is not modified.",
	}, handleOverlayDiff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "security_audit",
		Description: "Report the effective security of every operation in a specification: which operations carry their own security requirements, which inherit the document-global ones, and which allow unauthenticated access. Filter with scheme or public_only.",
	}, handleSecurityAudit)
}

// sanitizeError strips absolute filesystem paths from error messages to
// avoid leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// formatCount renders "<n> <noun>" with naive pluralization.
func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
