package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"medialink/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
log:
  level: debug
  format: json
watch:
  debounce: 2s
organize:
  - directories: ["/downloads/tv"]
    targetPath: /media/tv
    targetFormat: "{{ title }}/{{ title }} - S{{ season }}E{{ episode }}.{{ extension }}"
    allowedExtensions: [mkv, mp4]
    ignoredExtensions: [nfo]
    allowedSize: [100, 20000]
    strictType: series
    useHighestQuality: true
  - directories: ["/downloads/movies"]
    targetPath: /media/movies
    targetFormat: "{{ title|appendYear:year }}.{{ extension }}"
    enabled: false
`

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", sampleYAML)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "manifests", cfg.Storage.ManifestPrefix)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	require.Len(t, cfg.Organize, 2)
	tv := cfg.Organize[0]
	assert.Equal(t, []string{"/downloads/tv"}, tv.Directories)
	assert.Equal(t, "/media/tv", tv.TargetPath)
	assert.Equal(t, []string{"mkv", "mp4"}, tv.AllowedExtensions)
	assert.Equal(t, []float64{100, 20000}, tv.AllowedSize)
	assert.Equal(t, reconcile.MediaSeries, tv.StrictType)
	assert.True(t, tv.UseHighestQuality)
	assert.True(t, tv.IsEnabled(), "absent enabled means enabled")

	assert.False(t, cfg.Organize[1].IsEnabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", sampleYAML)
	writeConfig(t, dir, ".env", "SERVER_API_KEY=from-dotenv\n")
	t.Setenv("SERVER_API_KEY", "restored-after-test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_ENABLED", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "from-dotenv", cfg.Server.ApiKey)
	assert.True(t, cfg.Database.Enabled)
}

func TestLoadConfig_EnvConfigPath(t *testing.T) {
	other := t.TempDir()
	path := writeConfig(t, other, "links.yaml", sampleYAML)
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Len(t, cfg.Organize, 2)

	t.Setenv(EnvConfigPath, filepath.Join(other, "missing.yaml"))
	_, err = LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing directories",
			body: "organize:\n  - targetPath: /media\n    targetFormat: x\n",
			want: "Directories",
		},
		{
			name: "bad strict type",
			body: "organize:\n  - directories: [/a]\n    targetPath: /media\n    targetFormat: x\n    strictType: music\n",
			want: "StrictType",
		},
		{
			name: "too many size bounds",
			body: "organize:\n  - directories: [/a]\n    targetPath: /media\n    targetFormat: x\n    allowedSize: [1, 2, 3]\n",
			want: "AllowedSize",
		},
		{
			name: "bad log format",
			body: "log:\n  format: xml\n",
			want: "Format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.yaml", tt.body)

			_, err := LoadConfig(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
