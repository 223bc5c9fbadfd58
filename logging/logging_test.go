package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo-app.log")
	opts := DefaultOptions()
	opts.File = path

	logger, closer, err := New(opts)
	require.NoError(t, err)
	logger.Info("saved list", "key", "todo-list", "bytes", 42)
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "saved list")
	assert.Contains(t, out, "key=todo-list")
	assert.Contains(t, out, "bytes=42")
	assert.NotContains(t, out, "hidden")
}

func TestNewWithoutFileDiscards(t *testing.T) {
	logger, closer, err := New(DefaultOptions())
	require.NoError(t, err)
	assert.NotPanics(t, func() { logger.Error("nowhere") })
	assert.NoError(t, closer.Close())
}

func TestNewWithWriterHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Options{Level: "warn", Formatter: log.TextFormatter})
	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, ParseLevel("nonsense"))
}
