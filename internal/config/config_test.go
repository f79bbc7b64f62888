package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("RANKER_PORT", "9090")
	t.Setenv("RANKER_DATABASE_URL", "postgres://localhost:5432/ranker")
	t.Setenv("RANKER_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/ranker", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_YAMLFileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: 9000\nlog_level: warn\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("RANKER_CONFIG", path)
	t.Setenv("RANKER_LOG_LEVEL", "error")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_MissingConfigFileFails(t *testing.T) {
	t.Setenv("RANKER_CONFIG", "/nonexistent/config.yaml")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_InvalidPortFails(t *testing.T) {
	t.Setenv("RANKER_PORT", "70000")

	_, err := Load()

	assert.Error(t, err)
}

func TestInMemory_Selection(t *testing.T) {
	cases := []struct {
		name     string
		cfg      Config
		expected bool
	}{
		{"no database url", Config{}, true},
		{"database url set", Config{DatabaseURL: "postgres://x"}, false},
		{"forced in-memory", Config{DatabaseURL: "postgres://x", UseInMemory: true}, true},
		{"test environment", Config{DatabaseURL: "postgres://x", Environment: "test"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.cfg.InMemory())
		})
	}
}
