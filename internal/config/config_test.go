package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "twozhakes.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "", cfg.Defaults.Zone)
	assert.Equal(t, OutputText, cfg.Defaults.Output)
	assert.Equal(t, "warn", cfg.Defaults.LogLevel)
	assert.Equal(t, "twozhakes.db", cfg.Journal.Path)
	assert.False(t, cfg.Journal.Record)
	assert.Equal(t, "recipes", cfg.Recipes.Dir)
	assert.Empty(t, cfg.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[defaults]
zone = "Asia/Tokyo"
output = "json"

[journal]
path = "/tmp/j.db"
record = true

[recipes]
dir = "/srv/recipes"

[metrics]
out = "/tmp/twozhakes.prom"

[calendar.formats]
sameDay = "[Today at] HH:mm"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "Asia/Tokyo", cfg.Defaults.Zone)
	assert.Equal(t, OutputJSON, cfg.Defaults.Output)
	assert.Equal(t, "warn", cfg.Defaults.LogLevel)
	assert.Equal(t, "/tmp/j.db", cfg.Journal.Path)
	assert.True(t, cfg.Journal.Record)
	assert.Equal(t, "/srv/recipes", cfg.Recipes.Dir)
	assert.Equal(t, "/tmp/twozhakes.prom", cfg.Metrics.Out)
	assert.Equal(t, map[string]string{"sameDay": "[Today at] HH:mm"}, cfg.Calendar.Formats)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TWOZHAKES_TEST_DIR", dir)

	cfg, err := Load(writeConfig(t, `
[journal]
path = "$TWOZHAKES_TEST_DIR/journal.db"
`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Journal.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"syntax", "[defaults\nzone = 1", "failed to parse config"},
		{"unknown key", "[defaults]\ntimezone = \"UTC\"", "unknown keys: defaults.timezone"},
		{"bad output", "[defaults]\noutput = \"yaml\"", "defaults.output"},
		{"bad level", "[defaults]\nlog_level = \"loud\"", "defaults.log_level"},
		{"wrong type", "[journal]\nrecord = \"yes\"", "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestResolve(t *testing.T) {
	t.Run("no path no env", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(EnvVar, writeConfig(t, "[defaults]\nzone = \"Europe/Paris\""))
		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "Europe/Paris", cfg.Defaults.Zone)
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(EnvVar, writeConfig(t, "[defaults]\nzone = \"Europe/Paris\""))
		cfg, err := Resolve(writeConfig(t, "[defaults]\nzone = \"Asia/Tokyo\""))
		require.NoError(t, err)
		assert.Equal(t, "Asia/Tokyo", cfg.Defaults.Zone)
	})
}
