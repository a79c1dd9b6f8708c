// Package config loads fairpay settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all fairpay configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            int      `yaml:"port"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Path of the SQLite file. ":memory:" keeps nothing across restarts.
	Path string `yaml:"path"`
}

type GeminiConfig struct {
	APIKey           string `yaml:"api_key"`
	Model            string `yaml:"model"`
	MaxDocumentChars int    `yaml:"max_document_chars"`
}

type IngestConfig struct {
	// Strict rejects awards with validation problems instead of upserting
	// them with warnings.
	Strict     bool   `yaml:"strict"`
	Workers    int    `yaml:"workers"`
	Buffer     int    `yaml:"buffer"`
	JobTimeout string `yaml:"job_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Path: "./data/fairpay.db",
		},
		Gemini: GeminiConfig{
			Model:            "gemini-2.5-flash",
			MaxDocumentChars: 15000,
		},
		Ingest: IngestConfig{
			Workers:    2,
			Buffer:     16,
			JobTimeout: "2m",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FAIRPAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("FAIRPAY_DB"); v != "" {
		c.Database.Path = v
	}
	// API_KEY is the name the browser build used.
	if v := os.Getenv("API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("FAIRPAY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FAIRPAY_INGEST_STRICT"); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Ingest.Strict = strict
		}
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path not configured")
	}
	for name, v := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"ingest.job_timeout":      c.Ingest.JobTimeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Log.Level)
	}
	return nil
}

// HasAssistant reports whether an API key is configured.
func (c *Config) HasAssistant() bool {
	return c.Gemini.APIKey != ""
}

// GetShutdownTimeout returns the graceful shutdown budget, 10s if unset.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// GetJobTimeout returns the per-ingestion timeout, 2m if unset.
func (c *Config) GetJobTimeout() time.Duration {
	return parseDuration(c.Ingest.JobTimeout, 2*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
