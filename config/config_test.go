package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg := Default()
	cfg.RootPath = t.TempDir()
	cfg.DBPath = filepath.Join(t.TempDir(), "scan.db")
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 1000, cfg.BatchSize)
	require.Positive(t, cfg.Workers)
	require.Equal(t, 256, cfg.QueueSize)
	require.Equal(t, "ignore", cfg.Conflict)
	require.Equal(t, 5, cfg.MaxRetries)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DRIVEMAPPER_BATCH_SIZE", "42")
	t.Setenv("DRIVEMAPPER_CONFLICT", "replace")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 42, cfg.BatchSize)
	require.Equal(t, "replace", cfg.Conflict)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing root", func(c *Config) { c.RootPath = "" }, "root path"},
		{"nonexistent root", func(c *Config) { c.RootPath = filepath.Join(c.RootPath, "gone") }, "invalid root path"},
		{"missing db path", func(c *Config) { c.DBPath = "" }, "database path"},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "batch size"},
		{"negative batch size", func(c *Config) { c.BatchSize = -5 }, "batch size"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"zero queue size", func(c *Config) { c.QueueSize = 0 }, "queue size"},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "max retries"},
		{"bad conflict policy", func(c *Config) { c.Conflict = "append" }, "conflict policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
