package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", "/home/operator")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DataFile)
	assert.Equal(t, filepath.Join("/home/operator", ".plantmcp"), cfg.DataDir)
	assert.True(t, cfg.Journal)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.MetricsAddr)
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, FileName, "data_file: plant.yaml\nlog_level: debug\njournal: false\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plant.yaml", cfg.DataFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Journal)
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, t.TempDir(), "custom.yaml", "metrics_addr: 127.0.0.1:9464\nlog_json: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, FileName, "log_level: debug\n")
	t.Setenv("PLANTMCP_LOG_LEVEL", "WARN")
	t.Setenv("PLANTMCP_JOURNAL", "false")
	t.Setenv("PLANTMCP_DATA_DIR", "/var/lib/plantmcp")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Journal)
	assert.Equal(t, "/var/lib/plantmcp", cfg.DataDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"level", "log_level: loud\n", `log_level must be one of: debug, info, warn, error (got "loud")`},
		{"metrics address", "metrics_addr: not-an-address\n", `metrics_addr must be host:port`},
		{"data dir", "data_dir: \"\"\n", "data_dir is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.yaml", tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{LogLevel: "trace", MetricsAddr: "nope"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_dir is required")
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "metrics_addr")
}

func TestJournalConfig(t *testing.T) {
	cfg := &Config{DataDir: "/srv/plant"}
	jc := cfg.JournalConfig()
	assert.Equal(t, "/srv/plant", jc.DataDir)
	assert.Positive(t, jc.MaxMessageLength)
}
