// Package config loads process configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds process configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// DatabaseURL is the PostgreSQL connection string. Empty means the
	// in-memory backend is used.
	DatabaseURL string `koanf:"database_url"`

	// UseInMemory forces the in-memory backend even when DatabaseURL is set.
	UseInMemory bool `koanf:"use_in_memory"`

	// Environment names the runtime environment. "test" forces the
	// in-memory backend.
	Environment string `koanf:"environment"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// InMemory reports whether the configuration selects the in-memory backend.
func (c *Config) InMemory() bool {
	return c.UseInMemory || c.Environment == "test" || c.DatabaseURL == ""
}

// Load builds a Config by layering (low -> high precedence):
//  1. defaults
//  2. YAML file named by RANKER_CONFIG, if set
//  3. environment variables with the RANKER_ prefix
func Load() (*Config, error) {
	cfg := Config{
		Port:        8080,
		Environment: "development",
		LogLevel:    "info",
	}

	k := koanf.New(".")

	if path := os.Getenv("RANKER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// RANKER_DATABASE_URL -> database_url, RANKER_USE_IN_MEMORY -> use_in_memory, ...
	envProvider := env.Provider("RANKER_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "RANKER_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return &cfg, nil
}
