package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat(FormatText))
	assert.NoError(t, ValidateOutputFormat(FormatJSON))
	assert.NoError(t, ValidateOutputFormat(FormatYAML))

	err := ValidateOutputFormat("xml")
	require.Error(t, err)

	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestOutputStructured(t *testing.T) {
	data := map[string]any{"actions": 4}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatJSON))
		assert.JSONEq(t, `{"actions": 4}`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatYAML))
		assert.Contains(t, buf.String(), "actions: 4")
	})

	t.Run("text rejected", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputStructured(&buf, data, FormatText))
	})
}

func TestWriteDocument(t *testing.T) {
	t.Run("restrictive permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.yaml")
		require.NoError(t, WriteDocument(path, []byte("openapi: 3.1.0\n")))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("overwrites regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.yaml")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
		require.NoError(t, WriteDocument(path, []byte("new\n")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new\n", string(data))
	})

	t.Run("symlink rejected", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "target.yaml")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
		link := filepath.Join(dir, "link.yaml")
		require.NoError(t, os.Symlink(target, link))

		err := WriteDocument(link, []byte("y"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")
	})
}

func TestFormatSpecPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatSpecPath(StdinFilePath))
	assert.Equal(t, "api.yaml", FormatSpecPath("api.yaml"))
}

func TestUsageError(t *testing.T) {
	err := usageErrorf("need %d args", 2)
	assert.Equal(t, "need 2 args", err.Error())
}
