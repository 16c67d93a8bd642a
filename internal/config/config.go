// Package config loads the server configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"`

	// DisableDB keeps structures in memory only.
	DisableDB bool `yaml:"disable_db"`

	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	MaxBlocks      int   `yaml:"max_blocks"`
	CacheSize      int   `yaml:"cache_size"`
	WSQueue        int   `yaml:"ws_queue"`
}

// Load reads the config at path, falling back to defaults when the path is
// empty. A missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Addr:           ":8080",
		DataDir:        "./data",
		MaxUploadBytes: 32 << 20,
		MaxBlocks:      4_000_000,
		CacheSize:      64,
		WSQueue:        16,
	}
}

func (c *Config) Normalize() {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = ":8080"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./data"
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 32 << 20
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 64
	}
	if c.WSQueue <= 0 {
		c.WSQueue = 16
	}
}

func (c *Config) Validate() error {
	if c.MaxBlocks < 0 {
		return fmt.Errorf("max_blocks must be >= 0")
	}
	return nil
}
