package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/contract/selector"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, selector.Keccak256, cfg.Family())
	assert.Equal(t, 8, cfg.MaxCallDepth)
	assert.Equal(t, "./contract.db", cfg.StoreParams()["path"])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
hash_family: sm3
max_call_depth: 4
store:
  kind: memory
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, selector.SM3, cfg.Family())
	assert.Equal(t, 4, cfg.MaxCallDepth)
	assert.Equal(t, "memory", cfg.Store.Kind)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched fields keep their defaults
	assert.Equal(t, Default().ScratchCapacity, cfg.ScratchCapacity)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_call_depth: [1"), 0644))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("hash_family: md5"), 0644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, selector.ErrUnknownFamily)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"tiny scratch", func(c *Config) { c.ScratchCapacity = 4 }},
		{"zero depth", func(c *Config) { c.MaxCallDepth = 0 }},
		{"zero code size", func(c *Config) { c.MaxCodeSize = 0 }},
		{"unknown store", func(c *Config) { c.Store.Kind = "redis" }},
		{"sqlite without path", func(c *Config) { c.Store.Path = "" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
