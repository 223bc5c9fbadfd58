package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-app/store"
	"todo-app/viewport"
)

// isolate points every lookup at fresh temp dirs and clears the env.
func isolate(t *testing.T) (configHome, work string) {
	t.Helper()
	configHome = t.TempDir()
	work = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", filepath.Join(work, "data"))
	for _, k := range []string{
		"DATA_DIR", "STORAGE_BACKEND", "STORAGE_KEY", "PLATFORM",
		"KEYBOARD_DURATION_MS", "LOG_LEVEL", "LOG_FILE", "NO_COLOR",
	} {
		t.Setenv(envPrefix+k, "")
	}
	t.Setenv("NO_COLOR", "")
	require.NoError(t, os.Unsetenv("NO_COLOR"))
	chdir(t, work)
	return configHome, work
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	_, work := isolate(t)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "data", AppName), cfg.DataDir)
	assert.Equal(t, store.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, store.DefaultKey, cfg.Storage.Key)
	assert.Equal(t, viewport.PlatformTerminal, cfg.ViewportPlatform())
	assert.Equal(t, 250*time.Millisecond, cfg.KeyboardDuration())
	assert.Equal(t, filepath.Join(cfg.DataDir, "todo-app.log"), cfg.LogFile)
	assert.False(t, cfg.NoColor)
}

func TestProjectFileOverridesUserFile(t *testing.T) {
	configHome, work := isolate(t)
	writeFile(t, filepath.Join(configHome, AppName, "config.toml"), `
platform = "ios"
keyboard_duration_ms = 300

[storage]
backend = "sqlite"
`)
	writeFile(t, filepath.Join(work, "todo-app.toml"), `
platform = "android"
`)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "android", cfg.Platform)
	assert.Equal(t, store.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 300, cfg.KeyboardDurationMS)
}

func TestEnvOverridesFileAndFlagsOverrideEnv(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "todo-app.toml"), `
log_level = "warn"
[storage]
key = "from-file"
`)
	t.Setenv("TODO_APP_STORAGE_KEY", "from-env")
	t.Setenv("TODO_APP_LOG_LEVEL", "debug")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Storage.Key)
	assert.Equal(t, "debug", cfg.LogLevel)

	key := "from-flag"
	cfg, err = Load(Overrides{Key: &key})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Storage.Key)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNoColorEnv(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)

	off := false
	cfg, err = Load(Overrides{NoColor: &off})
	require.NoError(t, err)
	assert.False(t, cfg.NoColor)
}

func TestInvalidValuesAreRejected(t *testing.T) {
	isolate(t)
	bad := func(s string) *string { return &s }
	negative := -1

	cases := map[string]Overrides{
		"backend":  {Backend: bad("redis")},
		"platform": {Platform: bad("symbian")},
		"key":      {Key: bad("  ")},
		"level":    {LogLevel: bad("loud")},
		"duration": {KeyboardDuration: &negative},
	}
	for name, o := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(o)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestInvalidEnvDuration(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_APP_KEYBOARD_DURATION_MS", "soon")
	_, err := Load(Overrides{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUnknownFileKeyIsRejected(t *testing.T) {
	_, work := isolate(t)
	path := filepath.Join(work, "custom.toml")
	writeFile(t, path, `colour = "red"`)

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, "todos"), expandPath("~/todos"))
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
