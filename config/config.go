// Package config holds the runtime configuration loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/store"
	"github.com/govm-net/contract/types"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents runtime configuration
type Config struct {
	HashFamily      string      `yaml:"hash_family"`
	ScratchCapacity int         `yaml:"scratch_capacity"`
	MaxCallDepth    int         `yaml:"max_call_depth"`
	MaxCodeSize     int         `yaml:"max_code_size"`
	Store           StoreConfig `yaml:"store"`
	Log             LogConfig   `yaml:"log"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
	File   string `yaml:"file"`   // empty means stderr only

	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		HashFamily:      selector.Keccak256.String(),
		ScratchCapacity: types.ScratchCapacity,
		MaxCallDepth:    8,
		MaxCodeSize:     4 * 1024 * 1024, // 4MB
		Store: StoreConfig{
			Kind: string(store.SQLiteKind),
			Path: "./contract.db",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path over the defaults. Fields absent from the file keep their
// default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Family returns the parsed hash family.
func (c *Config) Family() selector.Family {
	f, err := selector.ParseFamily(c.HashFamily)
	if err != nil {
		return selector.Keccak256
	}
	return f
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := selector.ParseFamily(c.HashFamily); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ScratchCapacity < types.AddressLength {
		return fmt.Errorf("%w: scratch capacity %d is smaller than an address", ErrInvalidConfig, c.ScratchCapacity)
	}
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("%w: invalid max call depth: %d", ErrInvalidConfig, c.MaxCallDepth)
	}
	if c.MaxCodeSize <= 0 {
		return fmt.Errorf("%w: invalid max code size: %d", ErrInvalidConfig, c.MaxCodeSize)
	}
	switch store.Kind(c.Store.Kind) {
	case store.MemoryKind:
	case store.SQLiteKind:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: sqlite store path is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store kind %q", ErrInvalidConfig, c.Store.Kind)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// StoreParams returns the constructor parameters for store.Open.
func (c *Config) StoreParams() map[string]any {
	return map[string]any{"path": c.Store.Path}
}
