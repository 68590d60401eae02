package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasoverlay"
	"github.com/erraggy/oasoverlay/internal/doctree"
	"github.com/erraggy/oasoverlay/oaserrors"
)

// Parser loads OpenAPI specification documents into generic mapping trees.
//
// Documents are kept as map[string]any rather than typed structs so that
// overlay application preserves every field the source carried, including
// vendor extensions and keys from spec versions this package has never
// heard of.
type Parser struct {
	// ValidateStructure enables basic structure validation (root keys,
	// info.title, info.version).
	ValidateStructure bool
	// UserAgent is the User-Agent string used when fetching URLs.
	// Defaults to "oasoverlay/<version>" if not set.
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a default client with a 30-second timeout is created.
	HTTPClient *http.Client
	// MaxFileSize caps the size of fetched or read documents in bytes.
	// Default: 10MB. Applies to URLs and readers; local files are checked
	// after reading.
	MaxFileSize int64
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// DefaultMaxFileSize is the document size cap used when Parser.MaxFileSize
// is zero.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// New creates a new Parser instance with default settings.
func New() *Parser {
	return &Parser{
		ValidateStructure: true,
		UserAgent:         oasoverlay.UserAgent(),
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

// SourceFormat represents the format of a source document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains a parsed specification document and metadata.
//
// Document is the generic mapping tree the overlay engine operates on.
// Callers should treat the result as read-only; overlay application works
// on a copy unless explicitly asked not to. Use Copy for a safe mutable
// duplicate.
type ParseResult struct {
	// SourcePath is the input path or URL the document was read from.
	// For non-file sources this is a synthetic name ending in
	// ".yaml" or ".json" based on the detected format.
	SourcePath string
	// SourceFormat is the format of the source (JSON or YAML).
	SourceFormat SourceFormat
	// Version is the declared spec version string, e.g. "3.1.0" from the
	// openapi field or "2.0" from swagger.
	Version string
	// OASVersion is the enumerated spec version closest to Version.
	OASVersion OASVersion
	// Document is the parsed document as a generic mapping tree.
	Document map[string]any
	// Errors contains structure validation errors.
	Errors []error
	// Warnings contains non-fatal issues found during parsing.
	Warnings []string
	// LoadTime is the time taken to load the source data.
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes.
	SourceSize int64
	// Stats contains statistical information about the document.
	Stats DocumentStats
}

// Copy returns a deep copy of the ParseResult. The copied Document shares
// no mutable state with the original, so it is safe to hand to an overlay.
func (pr *ParseResult) Copy() *ParseResult {
	if pr == nil {
		return nil
	}
	dup := *pr
	dup.Document = doctree.CopyMap(pr.Document)
	dup.Errors = append([]error(nil), pr.Errors...)
	dup.Warnings = append([]string(nil), pr.Warnings...)
	return &dup
}

// Parse parses a specification document from a file path or URL.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	var (
		data   []byte
		err    error
		format SourceFormat
	)

	loadStart := time.Now()
	if isURL(specPath) {
		var contentType string
		data, contentType, err = p.fetchURL(specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromURL(specPath, contentType)
	} else {
		data, err = os.ReadFile(specPath)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read file: %w", err)
		}
		if int64(len(data)) > p.maxFileSize() {
			return nil, &oaserrors.ResourceLimitError{
				ResourceType: "document_bytes",
				Limit:        p.maxFileSize(),
				Actual:       int64(len(data)),
			}
		}
		format = detectFormatFromPath(specPath)
	}
	loadTime := time.Since(loadStart)

	res, err := p.parseBytes(data)
	if err != nil {
		return nil, err
	}

	res.SourcePath = specPath
	res.LoadTime = loadTime
	res.SourceSize = int64(len(data))
	if format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	return res, nil
}

// ParseReader parses a specification document from an io.Reader.
// The result's SourcePath is synthetic: "ParseReader.yaml" or "ParseReader.json".
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, p.maxFileSize()+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	if int64(len(data)) > p.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "document_bytes",
			Limit:        p.maxFileSize(),
			Actual:       int64(len(data)),
		}
	}

	res, err := p.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = sourceName("ParseReader", res.SourceFormat)
	return res, nil
}

// ParseBytes parses a specification document from a byte slice.
// The result's SourcePath is synthetic: "ParseBytes.yaml" or "ParseBytes.json".
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parseBytes(data)
	if err != nil {
		return nil, err
	}
	res.SourceSize = int64(len(data))
	res.SourcePath = sourceName("ParseBytes", res.SourceFormat)
	return res, nil
}

func sourceName(method string, format SourceFormat) string {
	if format == SourceFormatJSON {
		return method + ".json"
	}
	return method + ".yaml"
}

// parseBytes is the core parse path shared by all entry points.
func (p *Parser) parseBytes(data []byte) (*ParseResult, error) {
	result := &ParseResult{
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
	result.SourceFormat = detectFormatFromContent(data)

	var raw map[string]any
	// JSON decodes directly; everything else goes through the YAML parser,
	// which also accepts JSON but allocates more doing it.
	if result.SourceFormat == SourceFormatJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &oaserrors.ParseError{Message: "failed to parse JSON document", Cause: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &oaserrors.ParseError{Message: "failed to parse YAML document", Cause: err}
		}
	}
	if raw == nil {
		return nil, &oaserrors.ParseError{Message: "document is empty"}
	}
	result.Document = raw

	version, err := detectVersion(raw)
	if err != nil {
		return nil, err
	}
	result.Version = version
	if v, ok := ParseVersion(version); ok {
		result.OASVersion = v
	}

	p.log().Debug("parsed document",
		"format", string(result.SourceFormat),
		"version", result.Version)

	if p.ValidateStructure {
		result.Errors = append(result.Errors, validateStructure(result)...)
	}
	result.Stats = CollectStats(result.Document)

	return result, nil
}

// detectVersion reads the declared spec version from the document root.
func detectVersion(doc map[string]any) (string, error) {
	if v, ok := doc["openapi"].(string); ok && v != "" {
		return v, nil
	}
	if v, ok := doc["swagger"].(string); ok && v != "" {
		return v, nil
	}
	return "", &oaserrors.ParseError{
		Path:    "$",
		Message: "missing openapi or swagger version field",
	}
}

// validateStructure performs basic sanity checks on the document root.
// Failures are reported as *oaserrors.ValidationError values, not fatal
// parse errors: a structurally odd document can still be transformed.
func validateStructure(result *ParseResult) []error {
	var errs []error
	doc := result.Document

	info, ok := doc["info"].(map[string]any)
	if !ok {
		errs = append(errs, &oaserrors.ValidationError{
			Path:    "$.info",
			Message: "required field is missing",
		})
		return errs
	}
	if title, _ := info["title"].(string); title == "" {
		errs = append(errs, &oaserrors.ValidationError{
			Path:    "$.info.title",
			Message: "required field is missing or empty",
		})
	}
	if version, _ := info["version"].(string); version == "" {
		errs = append(errs, &oaserrors.ValidationError{
			Path:    "$.info.version",
			Message: "required field is missing or empty",
		})
	}

	if result.OASVersion == OASVersion20 || isOAS30x(result.OASVersion) {
		if _, ok := doc["paths"]; !ok {
			errs = append(errs, &oaserrors.ValidationError{
				Path:    "$.paths",
				Message: "required field is missing for this spec version",
			})
		}
	}

	return errs
}

func isOAS30x(v OASVersion) bool {
	switch v {
	case OASVersion300, OASVersion301, OASVersion302, OASVersion303, OASVersion304:
		return true
	}
	return false
}
