// Package config provides configuration management for the scribe command-line
// tool. It supports loading configuration from a YAML file and environment
// variables, with environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	scerrors "github.com/opencommittee/scribe/pkg/errors"
)

// Default configuration values.
const (
	DefaultConfigDir    = ".scribe"
	DefaultConfigFile   = "config.yaml"
	DefaultOpenAIBase   = "https://api.openai.com"
	DefaultModel        = "gpt-4.1-mini"
	DefaultRunTimeout   = 5 * time.Minute
	DefaultCallTimeout  = 90 * time.Second
	DefaultTemperature  = 0.1
	DefaultLogLevel     = "info"
)

// CompletionConfig holds settings for the completion service used during
// transcript extraction.
type CompletionConfig struct {
	// BaseURL is the root URL of an OpenAI-compatible API.
	BaseURL string `yaml:"base_url,omitempty"`

	// Model is the model identifier sent with each request.
	Model string `yaml:"model,omitempty"`

	// APIKey is the bearer token for the completion service. Prefer the
	// OPENAI_API_KEY environment variable or the system keyring over
	// storing the key in the config file.
	APIKey string `yaml:"api_key,omitempty"`

	// Temperature controls sampling randomness. Extraction wants
	// near-deterministic output, so the default is low.
	Temperature float64 `yaml:"temperature,omitempty"`

	// Timeout bounds a single completion request.
	Timeout time.Duration `yaml:"-"`
}

// Config holds the scribe configuration settings.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string for the catalog
	// database.
	DatabaseURL string `yaml:"database_url,omitempty"`

	// Completion holds completion-service settings.
	Completion CompletionConfig `yaml:"completion"`

	// RedisAddr is the address of a Redis instance for post-commit event
	// publication. Empty disables event publishing.
	RedisAddr string `yaml:"redis_addr,omitempty"`

	// RunTimeout bounds an entire transcript processing run.
	RunTimeout time.Duration `yaml:"-"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// LogJSON switches log output from console format to JSON lines.
	LogJSON bool `yaml:"log_json,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Completion: CompletionConfig{
			BaseURL:     DefaultOpenAIBase,
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
			Timeout:     DefaultCallTimeout,
		},
		RunTimeout: DefaultRunTimeout,
		LogLevel:   DefaultLogLevel,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $SCRIBE_CONFIG_DIR if set, otherwise ~/.scribe
func ConfigDir() (string, error) {
	if dir := os.Getenv("SCRIBE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// Load loads the scribe configuration.
// Configuration is loaded in this order (later sources override earlier):
//  1. Default values
//  2. Config file (~/.scribe/config.yaml or $SCRIBE_CONFIG_DIR/config.yaml)
//  3. Environment variables (DATABASE_URL, OPENAI_API_KEY, OPENAI_MODEL,
//     OPENAI_BASE_URL, SCRIBE_REDIS_ADDR, SCRIBE_RUN_TIMEOUT,
//     SCRIBE_LOG_LEVEL, SCRIBE_LOG_JSON)
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, scerrors.Configuration("resolving config path", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, scerrors.Configuration("loading config file", err)
		}
	}

	loadFromEnv(cfg)

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Durations are written as strings in YAML, so a temp struct carries
	// them through parsing.
	type completionFile struct {
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		APIKey      string  `yaml:"api_key"`
		Temperature float64 `yaml:"temperature"`
		Timeout     string  `yaml:"timeout"`
	}
	type configFile struct {
		DatabaseURL string         `yaml:"database_url"`
		Completion  completionFile `yaml:"completion"`
		RedisAddr   string         `yaml:"redis_addr"`
		RunTimeout  string         `yaml:"run_timeout"`
		LogLevel    string         `yaml:"log_level"`
		LogJSON     bool           `yaml:"log_json"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.DatabaseURL != "" {
		cfg.DatabaseURL = fileCfg.DatabaseURL
	}
	if fileCfg.Completion.BaseURL != "" {
		cfg.Completion.BaseURL = fileCfg.Completion.BaseURL
	}
	if fileCfg.Completion.Model != "" {
		cfg.Completion.Model = fileCfg.Completion.Model
	}
	if fileCfg.Completion.APIKey != "" {
		cfg.Completion.APIKey = fileCfg.Completion.APIKey
	}
	if fileCfg.Completion.Temperature != 0 {
		cfg.Completion.Temperature = fileCfg.Completion.Temperature
	}
	if fileCfg.Completion.Timeout != "" {
		d, err := time.ParseDuration(fileCfg.Completion.Timeout)
		if err != nil {
			return fmt.Errorf("invalid completion timeout %q: %w", fileCfg.Completion.Timeout, err)
		}
		cfg.Completion.Timeout = d
	}
	if fileCfg.RedisAddr != "" {
		cfg.RedisAddr = fileCfg.RedisAddr
	}
	if fileCfg.RunTimeout != "" {
		d, err := time.ParseDuration(fileCfg.RunTimeout)
		if err != nil {
			return fmt.Errorf("invalid run timeout %q: %w", fileCfg.RunTimeout, err)
		}
		cfg.RunTimeout = d
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogJSON {
		cfg.LogJSON = true
	}

	return nil
}

// loadFromEnv overlays configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Completion.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("SCRIBE_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("SCRIBE_RUN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RunTimeout = d
		}
	}
	if v := os.Getenv("SCRIBE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SCRIBE_LOG_JSON"); v != "" {
		cfg.LogJSON = strings.EqualFold(v, "true") || v == "1"
	}
}

// Validate checks that settings required for a processing run are present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return scerrors.Configuration("database_url is required (set DATABASE_URL or database_url in config)", nil)
	}
	if c.Completion.BaseURL == "" {
		return scerrors.Configuration("completion base_url is required", nil)
	}
	if c.Completion.Model == "" {
		return scerrors.Configuration("completion model is required", nil)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return scerrors.Configuration(fmt.Sprintf("invalid log level %q", c.LogLevel), nil)
	}
	return nil
}

// Save writes the configuration to the config file, creating the directory
// if needed.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
