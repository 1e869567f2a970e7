package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to construct a billing client.
type Config struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	LogLevel    string        `yaml:"log_level"`
	OTelEnabled bool          `yaml:"otel_enabled"`
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a YAML config file, then layers the environment on top.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw struct {
		APIKey      string `yaml:"api_key"`
		BaseURL     string `yaml:"base_url"`
		Timeout     string `yaml:"timeout"`
		LogLevel    string `yaml:"log_level"`
		OTelEnabled bool   `yaml:"otel_enabled"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{
		APIKey:      raw.APIKey,
		BaseURL:     raw.BaseURL,
		LogLevel:    raw.LogLevel,
		OTelEnabled: raw.OTelEnabled,
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q in config file: %w", raw.Timeout, err)
		}
		cfg.Timeout = d
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	c.APIKey = getEnv("REBILL_API_KEY", c.APIKey)
	c.BaseURL = getEnv("REBILL_BASE_URL", c.BaseURL)
	c.Timeout = getEnvDuration("REBILL_TIMEOUT", c.Timeout)
	c.LogLevel = getEnv("REBILL_LOG_LEVEL", c.LogLevel)
	c.OTelEnabled = getEnvBool("REBILL_OTEL_ENABLED", c.OTelEnabled)

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks required settings. Base URL is defaultable and stays empty
// here so the transport layer can apply its own default.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (REBILL_API_KEY)")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Logger builds a logrus logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// getEnv returns a string environment variable or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
