package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
listen_addr      = ":9999"
tick_interval_ms = 25
log_level        = "debug"
log_format       = "text"
sample_rate      = 48000
assets           = ["https://cdn.example.com/kick.wav", "https://cdn.example.com/hall.mp3"]
graph_file       = "startup.json"
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", f.ListenAddr)
	assert.Equal(t, 25, f.TickIntervalMS)
	assert.Equal(t, "debug", f.LogLevel)
	assert.Equal(t, "text", f.LogFormat)
	assert.Equal(t, 48000, f.SampleRate)
	assert.Equal(t, []string{"https://cdn.example.com/kick.wav", "https://cdn.example.com/hall.mp3"}, f.Assets)
	assert.Equal(t, "startup.json", f.GraphFile)
}

func TestLoadEmptyFileYieldsZeroValues(t *testing.T) {
	f, err := Load(writeSettings(t, ""))
	require.NoError(t, err)
	assert.Equal(t, &File{}, f)
}

func TestLoadEnvInterpolation(t *testing.T) {
	t.Setenv("WAVEGRAPH_TEST_LISTEN", ":7777")
	t.Setenv("WAVEGRAPH_TEST_HOST", "https://cdn.example.com")

	path := writeSettings(t, `
listen_addr = env.WAVEGRAPH_TEST_LISTEN
assets      = ["${env.WAVEGRAPH_TEST_HOST}/pad.wav"]
`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", f.ListenAddr)
	assert.Equal(t, []string{"https://cdn.example.com/pad.wav"}, f.Assets)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := Load(writeSettings(t, `listen_addr = `))
		assert.Error(t, err)
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := Load(writeSettings(t, `bogus_setting = true`))
		assert.Error(t, err)
	})
}
