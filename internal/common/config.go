// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Clients     ClientsConfig  `toml:"clients"`
	Analyzer    AnalyzerConfig `toml:"analyzer"`
	Auth        AuthConfig     `toml:"auth"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AnalyzerConfig holds tuning knobs for the analysis pipeline.
type AnalyzerConfig struct {
	UniverseLimit int     `toml:"universe_limit"` // symbols processed per analysis run
	MinQualified  int     `toml:"min_qualified"`  // below this count the fallback set kicks in
	TopN          int     `toml:"top_n"`          // ranked stocks returned
	RiskFreeRate  float64 `toml:"risk_free_rate"` // annualized, for Sharpe
	FallbackFile  string  `toml:"fallback_file"`  // optional JSON override for demo data
}

// AuthConfig holds authentication configuration for OAuth and JWT.
type AuthConfig struct {
	JWTSecret   string        `toml:"jwt_secret"`
	TokenExpiry string        `toml:"token_expiry"` // duration string, default "24h"
	RedirectURL string        `toml:"redirect_url"` // OAuth callback URL registered with the provider
	Google      OAuthProvider `toml:"google"`
}

// OAuthProvider holds OAuth client credentials for an external provider.
type OAuthProvider struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Analyzer: AnalyzerConfig{
			UniverseLimit: 20,
			MinQualified:  5,
			TopN:          10,
			RiskFreeRate:  0.02,
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
			RedirectURL: "http://localhost:8080/callback",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			FilePath: "./logs/folio.log",
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

	// Apply environment overrides
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("FOLIO_YAHOO_BASE_URL"); v != "" {
		config.Clients.Yahoo.BaseURL = v
	}

	// Auth overrides
	if v := os.Getenv("FOLIO_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOLIO_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("FOLIO_AUTH_REDIRECT_URL"); v != "" {
		config.Auth.RedirectURL = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		config.Auth.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		config.Auth.Google.ClientSecret = v
	}

	if v := os.Getenv("FOLIO_FALLBACK_FILE"); v != "" {
		config.Analyzer.FallbackFile = v
	}
}

// ValidateRequired returns the names of required settings that are missing
// or still at insecure defaults. An empty slice means the config is usable
// for authenticated operation.
func (c *Config) ValidateRequired() []string {
	var missing []string
	if c.Auth.Google.ClientID == "" {
		missing = append(missing, "auth.google.client_id")
	}
	if c.Auth.Google.ClientSecret == "" {
		missing = append(missing, "auth.google.client_secret")
	}
	if c.Auth.JWTSecret == "" || strings.Contains(c.Auth.JWTSecret, "change-in-production") {
		missing = append(missing, "auth.jwt_secret")
	}
	return missing
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
