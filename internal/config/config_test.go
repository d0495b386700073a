package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
listen_addr: ":9000"
root_location: /srv/uploads
max_upload_bytes: 1024
reset_on_start: true
log_level: debug
temp_ttl: 2h
`))
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("ADMIN_ENABLED", "true")
	t.Setenv("JANITOR_INTERVAL", "5m")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.ListenAddr)
	assert.Equal(t, "/srv/uploads", c.RootLocation)
	assert.Equal(t, int64(1024), c.MaxUploadBytes)
	assert.True(t, c.ResetOnStart)
	assert.True(t, c.AdminEnabled)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, 2*time.Hour, c.TempTTL)
	assert.Equal(t, 5*time.Minute, c.JanitorInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]struct {
		body string
		env  map[string]string
	}{
		"bad yaml":       {body: "listen_addr: [\n"},
		"negative size":  {body: "max_upload_bytes: -1\n"},
		"bad level":      {body: "log_level: loud\n"},
		"bad format":     {body: "log_format: xml\n"},
		"bad env bool":   {env: map[string]string{"RESET_ON_START": "maybe"}},
		"bad env size":   {env: map[string]string{"MAX_UPLOAD_BYTES": "ten"}},
		"bad env ttl":    {env: map[string]string{"TEMP_TTL": "forever"}},
		"empty location": {body: "root_location: \"  \"\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", writeConfig(t, tt.body))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
