package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, shouldExit, err := Parse(nil, new(bytes.Buffer))
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, ":8040", cfg.ListenAddr)
	assert.Equal(t, 40*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseFlags(t *testing.T) {
	cfg, shouldExit, err := Parse([]string{
		"-listen", ":7000",
		"-tick-interval", "25",
		"-sample-rate", "48000",
		"-log-format", "text",
		"-log-level", "debug",
		"-graph", "startup.json",
	}, new(bytes.Buffer))
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, 25*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "startup.json", cfg.GraphFile)
}

func TestParseHelp(t *testing.T) {
	out := new(bytes.Buffer)
	cfg, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "wavegraph")
}

func TestParseSettingsFileMergedUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr      = ":9999"
tick_interval_ms = 25
log_level        = "warn"
assets           = ["https://cdn.example.com/a.wav"]
`), 0o644))

	cfg, shouldExit, err := Parse([]string{"-c", path, "-listen", ":7000"}, new(bytes.Buffer))
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, ":7000", cfg.ListenAddr, "explicit flag beats the settings file")
	assert.Equal(t, 25*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"https://cdn.example.com/a.wav"}, cfg.Assets)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "missing settings file", args: []string{"-config", "/nonexistent/settings.hcl"}},
		{name: "invalid log level", args: []string{"-log-level", "verbose"}},
		{name: "invalid log format", args: []string{"-log-format", "xml"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, new(bytes.Buffer))
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
