// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package config loads service configuration using Koanf v2 with layered
// sources: built-in defaults, an optional YAML file, and NEWSFORGE_*
// environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/content"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/logging"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/querylog"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/relevance"
)

// DefaultConfigPaths lists the config file search paths in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/newsforge/config.yaml",
	"/etc/newsforge/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "NEWSFORGE_CONFIG_PATH"

// envPrefix namespaces all configuration environment variables.
const envPrefix = "NEWSFORGE_"

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0.
	Host string `json:"host" koanf:"host"`

	// Port is the listen port. Default: 8085.
	Port int `json:"port" koanf:"port"`

	// ShutdownTimeout bounds graceful shutdown. Default: 15s.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins. Default: none.
	CORSOrigins []string `json:"cors_origins" koanf:"cors_origins"`

	// RateLimit is the per-client request limit per minute. Default: 300.
	RateLimit int `json:"rate_limit" koanf:"rate_limit"`
}

// Config is the root service configuration.
type Config struct {
	Server    ServerConfig     `json:"server" koanf:"server"`
	Logging   logging.Config   `json:"logging" koanf:"logging"`
	Ranking   ranking.Config   `json:"ranking" koanf:"ranking"`
	Content   content.Config   `json:"content" koanf:"content"`
	QueryLog  querylog.Config  `json:"querylog" koanf:"querylog"`
	Relevance relevance.Config `json:"relevance" koanf:"relevance"`
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8085,
			ShutdownTimeout: 15 * time.Second,
			RateLimit:       300,
		},
		Logging:   logging.DefaultConfig(),
		Ranking:   *ranking.DefaultConfig(),
		QueryLog:  querylog.DefaultConfig("/data/newsforge/querylog"),
		Relevance: relevance.DefaultConfig(""),
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation: %w", err)
	}
	return cfg, nil
}

// Validate checks the full configuration tree.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("server.rate_limit must be positive")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if err := c.Ranking.Validate(); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	return nil
}

// findConfigFile returns the first config file that exists, honoring the
// override variable, or empty when none is present.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps environment variable names to koanf paths:
//
//	NEWSFORGE_SERVER_PORT        -> server.port
//	NEWSFORGE_LOGGING_LEVEL      -> logging.level
//	NEWSFORGE_RELEVANCE_BASE_URL -> relevance.base_url
//
// The first underscore separates the section; the remainder is the key,
// with nested section names resolved against a known list so multi-word
// keys like base_url survive.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	sections := []string{"server", "logging", "ranking", "content", "querylog", "relevance"}
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			rest := strings.TrimPrefix(key, section+"_")
			// Second-level sections under ranking keep their own keys.
			for _, sub := range []string{"limits", "cache"} {
				if section == "ranking" && strings.HasPrefix(rest, sub+"_") {
					return section + "." + sub + "." + strings.TrimPrefix(rest, sub+"_")
				}
			}
			return section + "." + rest
		}
	}
	return key
}
