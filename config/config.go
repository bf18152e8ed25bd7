package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the review sentiment service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Model    ModelConfig    `yaml:"model"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Aspects  AspectsConfig  `yaml:"aspects"`
	Cache    CacheConfig    `yaml:"cache"`
	Batch    BatchConfig    `yaml:"batch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// ModelConfig locates the artifacts. Bundle wins over Dir when both are set;
// an empty Dir means the "model" directory next to the executable.
type ModelConfig struct {
	Dir    string `yaml:"dir"`
	Bundle string `yaml:"bundle"`
}

// AnalysisConfig holds text normalization configuration.
type AnalysisConfig struct {
	Stemmer string `yaml:"stemmer"` // "porter" or "snowball"
}

// AspectsConfig overrides aspect keyword lists by aspect name.
type AspectsConfig struct {
	Keywords map[string][]string `yaml:"keywords"`
}

// CacheConfig holds score cache configuration.
type CacheConfig struct {
	Backend string        `yaml:"backend"` // "none", "memory", "valkey"
	MaxSize int           `yaml:"max_size"`
	TTL     time.Duration `yaml:"ttl"`
	Valkey  ValkeyConfig  `yaml:"valkey"`
}

type ValkeyConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	TLS      bool   `yaml:"tls"`
}

// BatchConfig holds directory scoring configuration.
type BatchConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Workers  int      `yaml:"workers"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Analysis: AnalysisConfig{
			Stemmer: "porter",
		},
		Cache: CacheConfig{
			Backend: "none",
			MaxSize: 10000,
			TTL:     time.Hour,
			Valkey: ValkeyConfig{
				Address: "localhost:6379",
			},
		},
		Batch: BatchConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/node_modules/**"},
			Workers:  4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for reviewsense.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "reviewsense.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".reviewsense", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// LoadEnv loads variables from a .env file into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := gotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("[Config] No .env file found, using OS environment", slog.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file settings with environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("REVIEWSENSE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("REVIEWSENSE_MODEL_DIR"); v != "" {
		c.Model.Dir = v
	}
	if v := os.Getenv("REVIEWSENSE_MODEL_BUNDLE"); v != "" {
		c.Model.Bundle = v
	}
	if v := os.Getenv("REVIEWSENSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VALKEY_INIT_ADDRESS"); v != "" {
		c.Cache.Valkey.Address = v
	}
	if v := os.Getenv("VALKEY_PASSWORD"); v != "" {
		c.Cache.Valkey.Password = v
	}
}

// Validate rejects settings that cannot be served.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Cache.Backend) {
	case "", "none", "memory", "valkey":
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative")
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
