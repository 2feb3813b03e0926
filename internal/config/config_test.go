package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abacus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.AngleRadians, cfg.Angle())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
angle_mode: degrees
precision: 10
server:
  port: "9090"
mcp:
  transport: sse
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.AngleDegrees, cfg.Angle())
	assert.Equal(t, 10, cfg.Precision)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Server.Metrics, "unset keys keep their defaults")
	assert.Equal(t, "sse", cfg.MCP.Transport)
	assert.Equal(t, 8081, cfg.MCP.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "precision: 10\n")
	t.Setenv("ABACUS_PRECISION", "6")
	t.Setenv("ABACUS_SERVER_PORT", "7070")
	t.Setenv("ABACUS_SERVER_METRICS", "false")
	t.Setenv("ABACUS_MCP_PORT", "9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Precision)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, 9999, cfg.MCP.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unknown Key", "colour: blue\n"},
		{"Bad Angle", "angle_mode: gradians\n"},
		{"Bad Level", "log_level: loud\n"},
		{"Bad Precision", "precision: 40\n"},
		{"Bad Transport", "mcp:\n  transport: carrier-pigeon\n"},
		{"Bad YAML", "precision: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
