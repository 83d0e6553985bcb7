// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Strategy names for the acquisition source.
const (
	StrategyBrowser = "browser"
	StrategyStatic  = "static"
)

// Config holds the runtime configuration. Values come from the environment,
// optionally overridden by a JSON config file.
type Config struct {
	// APIKey is the Gemini API key.
	APIKey string `json:"api_key,omitempty"`
	// Model is the provider model identifier.
	Model string `json:"model,omitempty"`
	// DatabaseURL enables the persistence capability when set.
	DatabaseURL string `json:"database_url,omitempty"`
	// Strategy selects the acquisition implementation: "browser" or "static".
	Strategy string `json:"strategy,omitempty"`
	// AcquireTimeout bounds one acquisition attempt.
	AcquireTimeout time.Duration `json:"-"`
	// StrictSchema enables JSON Schema validation of the normalized payload.
	StrictSchema bool `json:"strict_schema,omitempty"`
	// Port is the HTTP server listen port.
	Port int `json:"port,omitempty"`
	// Verbose prints detailed progress information.
	Verbose bool `json:"verbose,omitempty"`
}

// FromEnv builds a Config from environment variables with defaults applied.
func FromEnv() *Config {
	return &Config{
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		Model:          getEnvString("GEMINI_MODEL", ""),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Strategy:       getEnvString("ACQUIRE_STRATEGY", StrategyBrowser),
		AcquireTimeout: getEnvDuration("ACQUIRE_TIMEOUT", 25*time.Second),
		StrictSchema:   getEnvBool("STRICT_SCHEMA", false),
		Port:           getEnvInt("PORT", 8080),
	}
}

// LoadFile reads a JSON config file and overlays it onto the receiver.
// Only non-zero file values override.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Config
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if file.APIKey != "" {
		c.APIKey = file.APIKey
	}
	if file.Model != "" {
		c.Model = file.Model
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
	}
	if file.Strategy != "" {
		c.Strategy = file.Strategy
	}
	if file.Port != 0 {
		c.Port = file.Port
	}
	if file.StrictSchema {
		c.StrictSchema = true
	}
	if file.Verbose {
		c.Verbose = true
	}
	return nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	if c.Strategy != StrategyBrowser && c.Strategy != StrategyStatic {
		return fmt.Errorf("config error: unknown acquisition strategy %q", c.Strategy)
	}
	if c.AcquireTimeout <= 0 {
		return fmt.Errorf("config error: acquire timeout must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
