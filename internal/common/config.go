// Package common provides shared utilities for Finsight
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Finsight
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Engine      EngineConfig  `toml:"engine"`
	Clients     ClientsConfig `toml:"clients"`
	Storage     StorageConfig `toml:"storage"`
	Aliases     AliasConfig   `toml:"aliases"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// EngineConfig holds the analysis pipeline tuning knobs.
type EngineConfig struct {
	FetchConcurrency int    `toml:"fetch_concurrency"` // max in-flight market data fetches
	RetryAttempts    int    `toml:"retry_attempts"`    // attempts per symbol, including the first
	RetryBaseDelay   string `toml:"retry_base_delay"`  // initial backoff delay
	RetryMaxDelay    string `toml:"retry_max_delay"`   // backoff cap
	AttemptTimeout   string `toml:"attempt_timeout"`   // per-attempt fetch timeout
	AnalysisDeadline string `toml:"analysis_deadline"` // overall deadline for one analysis call
}

// GetRetryBaseDelay parses and returns the base backoff delay.
func (c *EngineConfig) GetRetryBaseDelay() time.Duration {
	d, err := time.ParseDuration(c.RetryBaseDelay)
	if err != nil {
		return 250 * time.Millisecond
	}
	return d
}

// GetRetryMaxDelay parses and returns the backoff delay cap.
func (c *EngineConfig) GetRetryMaxDelay() time.Duration {
	d, err := time.ParseDuration(c.RetryMaxDelay)
	if err != nil {
		return 4 * time.Second
	}
	return d
}

// GetAttemptTimeout parses and returns the per-attempt timeout.
func (c *EngineConfig) GetAttemptTimeout() time.Duration {
	d, err := time.ParseDuration(c.AttemptTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetAnalysisDeadline parses and returns the overall analysis deadline.
func (c *EngineConfig) GetAnalysisDeadline() time.Duration {
	d, err := time.ParseDuration(c.AnalysisDeadline)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD  EODHDConfig  `toml:"eodhd"`
	Gemini GeminiConfig `toml:"gemini"`
}

// EODHDConfig holds market data provider configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// StorageConfig holds storage configuration for persisted analyses.
type StorageConfig struct {
	Analyses AreaConfig `toml:"analyses"` // saved PortfolioAnalysis documents (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// AliasConfig holds the alias table source configuration.
// When Path is empty the built-in default table is used.
type AliasConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Engine: EngineConfig{
			FetchConcurrency: 4,
			RetryAttempts:    3,
			RetryBaseDelay:   "250ms",
			RetryMaxDelay:    "4s",
			AttemptTimeout:   "10s",
			AnalysisDeadline: "60s",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Storage: StorageConfig{
			Analyses: AreaConfig{Path: "data/analyses"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINSIGHT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINSIGHT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINSIGHT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINSIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FINSIGHT_DATA_PATH"); path != "" {
		config.Storage.Analyses.Path = path
	}

	if path := os.Getenv("FINSIGHT_ALIASES_PATH"); path != "" {
		config.Aliases.Path = path
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}
	if key := os.Getenv("FINSIGHT_EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
	if key := os.Getenv("FINSIGHT_GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
