package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.AutoReload)
	assert.True(t, cfg.UI.MarkdownDescriptions)
	assert.Equal(t, "dark", cfg.UI.MarkdownStyle)
	assert.False(t, cfg.Tracing.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "localhost:8000"},
		{"bad scheme", "ftp://localhost:8000"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.ServerURL = tt.url
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_RejectsNegativeTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Timeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestWriteDefaultConfig_RoundTripsThroughViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".enroll", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.AutoReload)
	assert.True(t, cfg.UI.ShowStatusBar)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
}

func TestWriteDefaultConfig_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("email: keep@mergington.edu\n"), 0644))

	assert.Error(t, WriteDefaultConfig(path))
}

func TestSaveEmail_UpdatesExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveEmail(path, "student@mergington.edu"))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "student@mergington.edu", v.GetString("email"))

	// Neighboring keys survive the edit.
	assert.Equal(t, "http://localhost:8000", v.GetString("server_url"))
}

func TestSaveEmail_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveEmail(path, "student@mergington.edu"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# enroll configuration")
}

func TestSaveEmail_AppendsMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://example.test\n"), 0644))

	require.NoError(t, SaveEmail(path, "new@mergington.edu"))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "new@mergington.edu", v.GetString("email"))
	assert.Equal(t, "http://example.test", v.GetString("server_url"))
}

func TestSaveEmail_CreatesFileWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveEmail(path, "solo@mergington.edu"))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "solo@mergington.edu", v.GetString("email"))
}
