package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}

	if cfg.Storage.Path != filepath.Join(".codeatlas", "atlas.db") {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Storage.PoolSize != 4 {
		t.Errorf("Storage.PoolSize = %d, want 4", cfg.Storage.PoolSize)
	}
	if cfg.Assembly.Workers != 4 {
		t.Errorf("Assembly.Workers = %d, want 4", cfg.Assembly.Workers)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("Export.Format = %q, want json", cfg.Export.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unsupported version", func(c *Config) { c.Version = 99 }, true},
		{"zero pool size", func(c *Config) { c.Storage.PoolSize = 0 }, true},
		{"zero workers", func(c *Config) { c.Assembly.Workers = 0 }, true},
		{"yaml format", func(c *Config) { c.Export.Format = "yaml" }, false},
		{"toml format", func(c *Config) { c.Export.Format = "toml" }, false},
		{"bad format", func(c *Config) { c.Export.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr && err == nil {
				t.Error("Validate() should return error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}

			if err != nil {
				if _, ok := err.(*ConfigError); !ok {
					t.Errorf("Validate() error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "version",
		Message: "unsupported version 99",
	}

	got := err.Error()
	want := "config error in field 'version': unsupported version 99"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Version != 1 || cfg.Storage.PoolSize != 4 {
		t.Errorf("missing config should yield defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Storage.PoolSize = 8
	cfg.Logging.Level = "debug"
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".codeatlas", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	got, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.Storage.PoolSize != 8 {
		t.Errorf("PoolSize = %d, want 8", got.Storage.PoolSize)
	}
	if got.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", got.Logging.Level)
	}
}
