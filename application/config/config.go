// Package config loads and validates process configuration for the
// execution core host: sandbox whitelist, concurrency limits, and the
// identity fields stamped into the evidence envelope.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config's YAML-facing shape; fields are pointers so an
// absent key in the file leaves the corresponding default/env value alone.
type fileConfig struct {
	AgentID          *string  `yaml:"agent_id"`
	HostID           *string  `yaml:"host_id"`
	MaxConcurrency   *int     `yaml:"max_concurrency"`
	SandboxWhitelist []string `yaml:"sandbox_whitelist"`
	CommandTimeout   *string  `yaml:"command_timeout"`
	LogFormat        *string  `yaml:"log_format"`
}

// Config is the top-level process configuration, loaded from the
// environment and validated with struct tags (spec.md §9.3).
type Config struct {
	AgentID          string        `validate:"required"`
	HostID           string        `validate:"required"`
	MaxConcurrency   int           `validate:"required,min=1,max=256"`
	SandboxWhitelist []string      `validate:"required,min=1"`
	CommandTimeout   time.Duration `validate:"required"`
	LogFormat        string        `validate:"required,oneof=json text"`
}

var validate = validator.New()

// FromEnv populates a Config from environment variables, applying defaults
// before validation.
//
//	ESCAN_AGENT_ID             required
//	ESCAN_HOST_ID              required
//	ESCAN_MAX_CONCURRENCY      default 4
//	ESCAN_SANDBOX_WHITELIST    comma-separated, required
//	ESCAN_COMMAND_TIMEOUT      Go duration string, default 30s
//	ESCAN_LOG_FORMAT           "json" or "text", default "json"
func FromEnv() (*Config, error) {
	cfg := &Config{
		AgentID:          os.Getenv("ESCAN_AGENT_ID"),
		HostID:           os.Getenv("ESCAN_HOST_ID"),
		MaxConcurrency:   4,
		SandboxWhitelist: splitCSV(os.Getenv("ESCAN_SANDBOX_WHITELIST")),
		CommandTimeout:   30 * time.Second,
		LogFormat:        "json",
	}

	if raw := os.Getenv("ESCAN_MAX_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("config: ESCAN_MAX_CONCURRENCY: %w", err)
		}
		cfg.MaxConcurrency = n
	}

	if raw := os.Getenv("ESCAN_COMMAND_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: ESCAN_COMMAND_TIMEOUT: %w", err)
		}
		cfg.CommandTimeout = d
	}

	if raw := os.Getenv("ESCAN_LOG_FORMAT"); raw != "" {
		cfg.LogFormat = raw
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// FromFile loads base config from a YAML file, then applies environment
// variables as overrides on top (env always wins), and validates the
// result. path may point to a file that does not exist, in which case only
// the defaults and environment variables apply. Unlike FromEnv, FromFile
// ignores a malformed ESCAN_MAX_CONCURRENCY or ESCAN_COMMAND_TIMEOUT value
// instead of returning an error.
func FromFile(path string) (*Config, error) {
	cfg := &Config{
		MaxConcurrency: 4,
		CommandTimeout: 30 * time.Second,
		LogFormat:      "json",
	}

	if raw, err := os.ReadFile(path); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		applyFileConfig(cfg, fc)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.AgentID != nil {
		cfg.AgentID = *fc.AgentID
	}
	if fc.HostID != nil {
		cfg.HostID = *fc.HostID
	}
	if fc.MaxConcurrency != nil {
		cfg.MaxConcurrency = *fc.MaxConcurrency
	}
	if len(fc.SandboxWhitelist) > 0 {
		cfg.SandboxWhitelist = fc.SandboxWhitelist
	}
	if fc.CommandTimeout != nil {
		if d, err := time.ParseDuration(*fc.CommandTimeout); err == nil {
			cfg.CommandTimeout = d
		}
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ESCAN_AGENT_ID"); v != "" {
		cfg.AgentID = v
	}
	if v := os.Getenv("ESCAN_HOST_ID"); v != "" {
		cfg.HostID = v
	}
	if v := os.Getenv("ESCAN_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrency = n
		}
	}
	if v := os.Getenv("ESCAN_SANDBOX_WHITELIST"); v != "" {
		cfg.SandboxWhitelist = splitCSV(v)
	}
	if v := os.Getenv("ESCAN_COMMAND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CommandTimeout = d
		}
	}
	if v := os.Getenv("ESCAN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
