package logutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "khatt.log")

	l, closer, err := New("info", path)
	require.NoError(t, err)
	l.Info().Msg("first")
	l.Debug().Msg("filtered")
	closer()

	l, closer, err = New("info", path)
	require.NoError(t, err)
	l.Info().Msg("second")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second", "log is appended")
	assert.NotContains(t, string(data), "filtered")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	assert.Error(t, err)
	assert.NotNil(t, closer)
}

func TestNew_NoFile(t *testing.T) {
	l, closer, err := New("debug", "")
	require.NoError(t, err)
	defer closer()
	l.Info().Msg("discarded")
}
