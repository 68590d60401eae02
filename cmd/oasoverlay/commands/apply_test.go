package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasoverlay/oaserrors"
)

const testSpecYAML = `openapi: 3.1.0
info:
  title: Customer Portal API
  version: 1.0.0
paths:
  /v1/customer-portal/orders:
    get:
      operationId: customer_portal:orders:list
      security:
        - customer_session: []
  /v1/products:
    get:
      operationId: products:list
components:
  securitySchemes:
    customer_session:
      type: http
      scheme: bearer
`

const testOverlayYAML = `overlay: 1.0.0
info:
  title: Portal security overlay
  version: 1.0.0
actions:
  - target: $.paths.*.*[?(!@.security)]
    update:
      security:
        - {}
  - target: $
    update:
      security:
        - access_token: []
  - target: $.components.securitySchemes
    update:
      access_token:
        type: http
        scheme: bearer
  - target: $.paths.*.*[?(!@.security[?(@.customer_session)])].security
    remove: true
`

func writeFixtures(t *testing.T) (specPath, overlayPath string) {
	t.Helper()
	dir := t.TempDir()
	specPath = filepath.Join(dir, "spec.yaml")
	overlayPath = filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(testSpecYAML), 0o600))
	require.NoError(t, os.WriteFile(overlayPath, []byte(testOverlayYAML), 0o600))
	return specPath, overlayPath
}

func TestSetupApplyFlags(t *testing.T) {
	fs, flags := SetupApplyFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Empty(t, flags.Output)
		assert.False(t, flags.DryRun)
		assert.False(t, flags.Strict)
		assert.False(t, flags.Quiet)
		assert.False(t, flags.Watch)
		assert.Equal(t, FormatText, flags.Format)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"--strict", "-n", "-q", "-o", "out.yaml", "--format", "json", "spec.yaml", "overlay.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.True(t, flags.Strict)
		assert.True(t, flags.DryRun)
		assert.True(t, flags.Quiet)
		assert.Equal(t, "out.yaml", flags.Output)
		assert.Equal(t, "json", flags.Format)
		assert.Equal(t, "spec.yaml", fs.Arg(0))
		assert.Equal(t, "overlay.yaml", fs.Arg(1))
	})
}

func TestHandleApply_NoArgs(t *testing.T) {
	err := HandleApply([]string{})
	require.Error(t, err)

	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestHandleApply_Help(t *testing.T) {
	assert.NoError(t, HandleApply([]string{"--help"}))
}

func TestHandleApply_InvalidFormat(t *testing.T) {
	err := HandleApply([]string{"--format", "xml", "spec.yaml", "overlay.yaml"})
	require.Error(t, err)

	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestHandleApply_WatchStdinRejected(t *testing.T) {
	err := HandleApply([]string{"--watch", "-", "overlay.yaml"})
	require.Error(t, err)

	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestHandleApply_EndToEnd(t *testing.T) {
	specPath, overlayPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	err := HandleApply([]string{"-q", "-o", outPath, specPath, overlayPath})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "access_token")
	assert.Contains(t, out, "customer_session")
	// The bare operation lost its interim [{}] security to the final action.
	assert.NotContains(t, out, "- {}")

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestHandleApply_DryRunDoesNotWrite(t *testing.T) {
	specPath, overlayPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	err := HandleApply([]string{"-q", "--dry-run", "-o", outPath, specPath, overlayPath})
	require.NoError(t, err)

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHandleApply_StrictNoMatch(t *testing.T) {
	specPath, _ := writeFixtures(t)

	noMatchOverlay := filepath.Join(t.TempDir(), "nomatch.yaml")
	require.NoError(t, os.WriteFile(noMatchOverlay, []byte(`overlay: 1.0.0
info:
  title: No match
  version: 1.0.0
actions:
  - target: $.paths['/does-not-exist']
    remove: true
`), 0o600))

	err := HandleApply([]string{"-q", "--strict", specPath, noMatchOverlay})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrNoMatch))
}

func TestHandleApply_MissingSpecFile(t *testing.T) {
	_, overlayPath := writeFixtures(t)
	err := HandleApply([]string{"-q", filepath.Join(t.TempDir(), "absent.yaml"), overlayPath})
	assert.Error(t, err)
}
