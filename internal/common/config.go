// Package common provides shared utilities for Perfolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DateFormat is the ISO date layout used for all request date parameters.
const DateFormat = "2006-01-02"

// Config holds all configuration for Perfolio
type Config struct {
	Environment string         `toml:"environment"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Server      ServerConfig   `toml:"server"`
	Cache       CacheConfig    `toml:"cache"`
	Clients     ClientsConfig  `toml:"clients"`
	Logging     LoggingConfig  `toml:"logging"`
}

// AnalysisConfig holds default analysis parameters.
// These are pass-through defaults; request values always win.
type AnalysisConfig struct {
	RiskFreeRate float64 `toml:"risk_free_rate"` // annual decimal, e.g. 0.01 for 1%
	Benchmark    string  `toml:"benchmark"`      // benchmark ticker symbol
	StartDate    string  `toml:"start_date"`     // default range start, ISO date
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CacheConfig holds EOD price cache configuration.
type CacheConfig struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
	Yahoo YahooConfig `toml:"yahoo"`
}

// EODHDConfig holds EODHD API configuration
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

// YahooConfig holds Yahoo Finance fallback source configuration.
type YahooConfig struct {
	Enabled bool `toml:"enabled"`
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
		Analysis: AnalysisConfig{
			RiskFreeRate: 0.01,
			Benchmark:    "SPY",
			StartDate:    "2023-01-01",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Cache: CacheConfig{
			Path:    "data/market",
			Enabled: true,
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Yahoo: YahooConfig{
				Enabled: true,
			},
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
	if env := os.Getenv("PERFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PERFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PERFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PERFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PERFOLIO_CACHE_PATH"); path != "" {
		config.Cache.Path = path
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if bench := os.Getenv("PERFOLIO_BENCHMARK"); bench != "" {
		config.Analysis.Benchmark = bench
	}

	if rf := os.Getenv("PERFOLIO_RISK_FREE_RATE"); rf != "" {
		if v, err := strconv.ParseFloat(rf, 64); err == nil {
			config.Analysis.RiskFreeRate = v
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
