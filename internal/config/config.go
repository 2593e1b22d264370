// Package config loads and persists the codeatlas configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete codeatlas configuration (v1 schema)
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Storage  StorageConfig  `json:"storage" mapstructure:"storage"`
	Assembly AssemblyConfig `json:"assembly" mapstructure:"assembly"`
	Export   ExportConfig   `json:"export" mapstructure:"export"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// StorageConfig contains store adapter configuration
type StorageConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	PoolSize int    `json:"poolSize" mapstructure:"poolSize"`
}

// AssemblyConfig contains graph assembly configuration
type AssemblyConfig struct {
	Workers int `json:"workers" mapstructure:"workers"`
}

// ExportConfig contains export configuration
type ExportConfig struct {
	Format   string `json:"format" mapstructure:"format"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Storage: StorageConfig{
			Path:     filepath.Join(".codeatlas", "atlas.db"),
			PoolSize: 4,
		},
		Assembly: AssemblyConfig{
			Workers: 4,
		},
		Export: ExportConfig{
			Format:   "json",
			Compress: false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .codeatlas/config.json
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")
	v.SetDefault("storage.path", filepath.Join(".codeatlas", "atlas.db"))
	v.SetDefault("storage.poolSize", 4)
	v.SetDefault("assembly.workers", 4)
	v.SetDefault("export.format", "json")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".codeatlas"))

	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .codeatlas/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".codeatlas")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Storage.PoolSize < 1 {
		return &ConfigError{Field: "storage.poolSize", Message: "pool size must be at least 1"}
	}
	if c.Assembly.Workers < 1 {
		return &ConfigError{Field: "assembly.workers", Message: "workers must be at least 1"}
	}
	switch c.Export.Format {
	case "json", "yaml", "toml":
	default:
		return &ConfigError{Field: "export.format", Message: "format must be json, yaml, or toml"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
