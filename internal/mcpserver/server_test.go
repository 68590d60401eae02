package mcpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "home path stripped",
			err:  errors.New("open /home/alice/specs/api.yaml: no such file or directory"),
			want: "open <path>: no such file or directory",
		},
		{
			name: "tmp path stripped",
			err:  errors.New("failed to read /tmp/overlay-12345.yaml"),
			want: "failed to read <path>",
		},
		{
			name: "no path untouched",
			err:  errors.New("exactly one of file, url, or content must be provided (got 0)"),
			want: "exactly one of file, url, or content must be provided (got 0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	result := errResult(errors.New("boom in /var/data"))
	assert.True(t, result.IsError)
	require := result.Content
	assert.Len(t, require, 1)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "1 action", formatCount(1, "action"))
	assert.Equal(t, "0 actions", formatCount(0, "action"))
	assert.Equal(t, "12 warnings", formatCount(12, "warning"))
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[int](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}
