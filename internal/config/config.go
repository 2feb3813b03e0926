// Package config loads Abacus settings: defaults, then an optional YAML
// file, then ABACUS_* environment variables. Command-line flags are applied
// by the CLI on top of the result.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. ABACUS_SERVER_PORT.
const EnvPrefix = "ABACUS_"

// Config is the full runtime configuration.
type Config struct {
	AngleMode    string       `mapstructure:"angle_mode" yaml:"angle_mode"`
	Precision    int          `mapstructure:"precision" yaml:"precision"`
	LogLevel     string       `mapstructure:"log_level" yaml:"log_level"`
	MaxInputSize int          `mapstructure:"max_input_size" yaml:"max_input_size"`
	Server       ServerConfig `mapstructure:"server" yaml:"server"`
	MCP          MCPConfig    `mapstructure:"mcp" yaml:"mcp"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port    string `mapstructure:"port" yaml:"port"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	Transport string `mapstructure:"transport" yaml:"transport"`
	Port      int    `mapstructure:"port" yaml:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AngleMode:    string(domain.AngleRadians),
		Precision:    14,
		LogLevel:     "info",
		MaxInputSize: 4096,
		Server: ServerConfig{
			Port:    "8080",
			Metrics: true,
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Port:      8081,
		},
	}
}

// envKeys maps environment suffixes to config paths.
var envKeys = map[string][]string{
	"ANGLE_MODE":     {"angle_mode"},
	"PRECISION":      {"precision"},
	"LOG_LEVEL":      {"log_level"},
	"MAX_INPUT_SIZE": {"max_input_size"},
	"SERVER_PORT":    {"server", "port"},
	"SERVER_METRICS": {"server", "metrics"},
	"MCP_TRANSPORT":  {"mcp", "transport"},
	"MCP_PORT":       {"mcp", "port"},
}

// Load builds the configuration. An empty path skips the file; a path that
// does not exist is an error.
func Load(path string) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for suffix, keys := range envKeys {
		if val, ok := os.LookupEnv(EnvPrefix + suffix); ok {
			setPath(raw, keys, val)
		}
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that have a closed set of options.
func (c Config) Validate() error {
	if _, err := domain.ParseAngleMode(c.AngleMode); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("invalid config: precision %d out of range [0, 17]", c.Precision)
	}
	if c.MaxInputSize < 0 {
		return fmt.Errorf("invalid config: max_input_size must not be negative")
	}
	switch strings.ToLower(c.MCP.Transport) {
	case "stdio", "sse":
	default:
		return fmt.Errorf("invalid config: unknown mcp transport %q", c.MCP.Transport)
	}
	return nil
}

// Angle returns the parsed angle mode. Call after Validate.
func (c Config) Angle() domain.AngleMode {
	mode, _ := domain.ParseAngleMode(c.AngleMode)
	return mode
}

func setPath(m map[string]any, keys []string, val any) {
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = val
}
