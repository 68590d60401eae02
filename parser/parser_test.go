package parser

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasoverlay/oaserrors"
)

const portalYAML = `openapi: 3.1.0
info:
  title: Customer Portal API
  version: 1.4.2
paths:
  /orders:
    get:
      operationId: orders:list
      responses:
        "200":
          description: OK
    post:
      operationId: orders:create
      security:
        - access_token: []
      responses:
        "201":
          description: Created
  /customers/me:
    get:
      operationId: customers:get
      responses:
        "200":
          description: OK
components:
  securitySchemes:
    customer_session:
      type: http
      scheme: bearer
`

const portalJSON = `{
  "openapi": "3.1.0",
  "info": {"title": "Customer Portal API", "version": "1.4.2"},
  "paths": {
    "/orders": {
      "get": {"operationId": "orders:list"}
    }
  }
}`

const legacyYAML = `swagger: "2.0"
info:
  title: Legacy Portal API
  version: 0.9.0
paths: {}
securityDefinitions:
  api_key:
    type: apiKey
    name: X-API-Key
    in: header
`

// writeFixture writes content to a temp file and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseYAMLFile(t *testing.T) {
	p := New()
	result, err := p.Parse(writeFixture(t, "portal.yaml", portalYAML))
	require.NoError(t, err)

	assert.Equal(t, "3.1.0", result.Version)
	assert.Equal(t, OASVersion310, result.OASVersion)
	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, int64(len(portalYAML)), result.SourceSize)
	assert.Empty(t, result.Errors)

	info, ok := result.Document["info"].(map[string]any)
	require.True(t, ok, "info should be a mapping")
	assert.Equal(t, "Customer Portal API", info["title"])

	assert.Equal(t, 2, result.Stats.PathCount)
	assert.Equal(t, 3, result.Stats.OperationCount)
	assert.Equal(t, 1, result.Stats.SchemeCount)
}

func TestParseJSONFile(t *testing.T) {
	p := New()
	result, err := p.Parse(writeFixture(t, "portal.json", portalJSON))
	require.NoError(t, err)

	assert.Equal(t, SourceFormatJSON, result.SourceFormat)
	assert.Equal(t, "3.1.0", result.Version)
	assert.Equal(t, 1, result.Stats.PathCount)
	assert.Equal(t, 1, result.Stats.OperationCount)
}

func TestParseLegacyDocument(t *testing.T) {
	p := New()
	result, err := p.Parse(writeFixture(t, "legacy.yaml", legacyYAML))
	require.NoError(t, err)

	assert.Equal(t, "2.0", result.Version)
	assert.Equal(t, OASVersion20, result.OASVersion)
	assert.Equal(t, 1, result.Stats.SchemeCount)
	assert.Empty(t, result.Errors)
}

func TestParseBytes(t *testing.T) {
	p := New()
	result, err := p.ParseBytes([]byte(portalYAML))
	require.NoError(t, err)

	assert.Equal(t, "ParseBytes.yaml", result.SourcePath)
	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, "3.1.0", result.Version)
}

func TestParseReader(t *testing.T) {
	p := New()
	result, err := p.ParseReader(strings.NewReader(portalJSON))
	require.NoError(t, err)

	assert.Equal(t, "ParseReader.json", result.SourcePath)
	assert.Equal(t, SourceFormatJSON, result.SourceFormat)
	assert.Equal(t, int64(len(portalJSON)), result.SourceSize)
}

func TestParseMissingFile(t *testing.T) {
	p := New()
	_, err := p.Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParseInvalidContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "broken yaml", input: "key: [unclosed"},
		{name: "broken json", input: `{"openapi": `},
		{name: "empty document", input: ""},
		{name: "no version field", input: "info:\n  title: No Version\n"},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseBytes([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrParse)
		})
	}
}

func TestValidateStructure(t *testing.T) {
	t.Run("missing info", func(t *testing.T) {
		p := New()
		result, err := p.ParseBytes([]byte("openapi: 3.1.0\npaths: {}\n"))
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)

		var verr *oaserrors.ValidationError
		require.ErrorAs(t, result.Errors[0], &verr)
		assert.Equal(t, "$.info", verr.Path)
	})

	t.Run("missing paths flagged for 3.0 only", func(t *testing.T) {
		p := New()
		doc30 := "openapi: 3.0.3\ninfo:\n  title: T\n  version: 1.0.0\n"
		result, err := p.ParseBytes([]byte(doc30))
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)

		// 3.1 made paths optional (webhooks-only documents).
		doc31 := "openapi: 3.1.0\ninfo:\n  title: T\n  version: 1.0.0\n"
		result, err = p.ParseBytes([]byte(doc31))
		require.NoError(t, err)
		assert.Empty(t, result.Errors)
	})

	t.Run("disabled", func(t *testing.T) {
		result, err := ParseWithOptions(
			WithBytes([]byte("openapi: 3.1.0\npaths: {}\n")),
			WithValidateStructure(false),
		)
		require.NoError(t, err)
		assert.Empty(t, result.Errors)
	})
}

func TestParseWithOptions(t *testing.T) {
	t.Run("bytes with source name", func(t *testing.T) {
		result, err := ParseWithOptions(
			WithBytes([]byte(portalYAML)),
			WithSourceName("portal.yaml"),
		)
		require.NoError(t, err)
		assert.Equal(t, "portal.yaml", result.SourcePath)
	})

	t.Run("no input source", func(t *testing.T) {
		_, err := ParseWithOptions()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must specify an input source")
	})

	t.Run("multiple input sources", func(t *testing.T) {
		_, err := ParseWithOptions(
			WithBytes([]byte(portalYAML)),
			WithFilePath("portal.yaml"),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one input source")
	})

	t.Run("nil reader", func(t *testing.T) {
		_, err := ParseWithOptions(WithReader(nil))
		require.Error(t, err)
	})
}

func TestParseURL(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(portalYAML))
	}))
	defer server.Close()

	p := New()
	result, err := p.Parse(server.URL + "/spec")
	require.NoError(t, err)

	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, "3.1.0", result.Version)
	assert.Equal(t, server.URL+"/spec", result.SourcePath)
	assert.True(t, strings.HasPrefix(gotUserAgent, "oasoverlay/"),
		"User-Agent %q should identify the tool", gotUserAgent)
}

func TestParseURLErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not here", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := New().Parse(server.URL + "/missing.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("response too large", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(portalYAML))
		}))
		defer server.Close()

		p := New()
		p.MaxFileSize = 16
		_, err := p.Parse(server.URL + "/spec.yaml")
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrResourceLimit)
	})
}

func TestMaxFileSize(t *testing.T) {
	p := New()
	p.MaxFileSize = 16

	_, err := p.Parse(writeFixture(t, "portal.yaml", portalYAML))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrResourceLimit)

	var rerr *oaserrors.ResourceLimitError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, int64(16), rerr.Limit)
}

func TestCopy(t *testing.T) {
	p := New()
	original, err := p.ParseBytes([]byte(portalYAML))
	require.NoError(t, err)

	dup := original.Copy()
	dup.Document["openapi"] = "9.9.9"
	paths := dup.Document["paths"].(map[string]any)
	delete(paths, "/orders")

	assert.Equal(t, "3.1.0", original.Document["openapi"])
	assert.Len(t, original.Document["paths"], 2)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  OASVersion
		ok    bool
	}{
		{input: "2.0", want: OASVersion20, ok: true},
		{input: "3.0.3", want: OASVersion303, ok: true},
		{input: "3.1.0", want: OASVersion310, ok: true},
		{input: "3.2.0", want: OASVersion320, ok: true},
		{input: "3.1.9", want: OASVersion312, ok: true},
		{input: "3.0.0-rc1", want: OASVersion300, ok: true},
		{input: "3.1.5-beta.2", want: OASVersion312, ok: true},
		{input: "2.1", ok: false},
		{input: "3.5.0", ok: false},
		{input: "4.0.0", ok: false},
		{input: "garbage", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseVersion(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{size: -1, want: "-1 B"},
		{size: 0, want: "0 B"},
		{size: 512, want: "512 B"},
		{size: 2048, want: "2.0 KiB"},
		{size: 5 * 1024 * 1024, want: "5.0 MiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.size))
	}
}

func TestMarshalDocument(t *testing.T) {
	p := New()
	result, err := p.ParseBytes([]byte(portalYAML))
	require.NoError(t, err)

	t.Run("yaml round trip", func(t *testing.T) {
		data, err := result.Marshal()
		require.NoError(t, err)
		assert.Contains(t, string(data), "openapi: 3.1.0")

		again, err := p.ParseBytes(data)
		require.NoError(t, err)
		assert.Equal(t, result.Stats, again.Stats)
	})

	t.Run("json output", func(t *testing.T) {
		data, err := MarshalDocument(result.Document, SourceFormatJSON)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "{"))
		assert.True(t, strings.HasSuffix(string(data), "\n"))
	})
}

func TestCheckShape(t *testing.T) {
	t.Run("plain tree", func(t *testing.T) {
		p := New()
		result, err := p.ParseBytes([]byte(portalYAML))
		require.NoError(t, err)
		assert.Nil(t, CheckShape(result.Document))
	})

	t.Run("flags foreign types", func(t *testing.T) {
		doc := map[string]any{
			"openapi": "3.1.0",
			"info": map[string]any{
				"created": time.Now(),
			},
		}
		bad := CheckShape(doc)
		require.Len(t, bad, 1)
		assert.Contains(t, bad[0], "$.info.created")
	})
}

func TestCollectStats(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		stats := CollectStats(map[string]any{})
		assert.Zero(t, stats.PathCount)
		assert.Zero(t, stats.OperationCount)
		assert.Zero(t, stats.SchemeCount)
	})

	t.Run("parameters are not operations", func(t *testing.T) {
		doc := map[string]any{
			"paths": map[string]any{
				"/orders/{id}": map[string]any{
					"parameters": []any{},
					"get":        map[string]any{},
					"delete":     map[string]any{},
				},
			},
		}
		stats := CollectStats(doc)
		assert.Equal(t, 1, stats.PathCount)
		assert.Equal(t, 2, stats.OperationCount)
	})
}

func TestDetectVersionErrorIsParseError(t *testing.T) {
	_, err := New().ParseBytes([]byte("info:\n  title: Missing\n  version: 1.0.0\n"))
	require.Error(t, err)

	var perr *oaserrors.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "$", perr.Path)
}
