// Package config holds the scan settings. Defaults come from viper and
// can be overridden through DRIVEMAPPER_* environment variables; command
// flags override both.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"

	"github.com/hirvin/drivemapper/db"
)

// Config represents one scan run's configuration.
type Config struct {
	RootPath  string `mapstructure:"root_path"`  // directory to scan
	DBPath    string `mapstructure:"db_path"`    // SQLite database file
	BatchSize int    `mapstructure:"batch_size"` // records per storage transaction
	Workers   int    `mapstructure:"workers"`    // concurrent directory readers
	QueueSize int    `mapstructure:"queue_size"` // record queue capacity
	Conflict  string `mapstructure:"conflict"`   // existing path policy: ignore, replace

	MaxRetries       int `mapstructure:"max_retries"`       // batch commit retries before aborting
	ProgressInterval int `mapstructure:"progress_interval"` // seconds between progress log lines
}

// Load builds a Config from defaults and environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("batch_size", 1000)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("queue_size", 256)
	v.SetDefault("conflict", string(db.ConflictIgnore))
	v.SetDefault("max_retries", 5)
	v.SetDefault("progress_interval", 5)

	v.SetEnvPrefix("DRIVEMAPPER")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the loaded configuration, falling back to bare
// defaults if the environment cannot be read. Used to seed flag
// defaults, where no error path exists.
func Default() Config {
	cfg, err := Load()
	if err != nil {
		return Config{
			BatchSize:        1000,
			Workers:          runtime.NumCPU(),
			QueueSize:        256,
			Conflict:         string(db.ConflictIgnore),
			MaxRetries:       5,
			ProgressInterval: 5,
		}
	}
	return *cfg
}

// Validate fails fast on configuration errors, before any worker or
// the storage connection is started.
func (c *Config) Validate() error {
	if c.RootPath == "" {
		return fmt.Errorf("root path is required")
	}
	if _, err := os.Stat(c.RootPath); err != nil {
		return fmt.Errorf("invalid root path %s: %w", c.RootPath, err)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue size must be positive, got %d", c.QueueSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if !db.ConflictPolicy(c.Conflict).Valid() {
		return fmt.Errorf("conflict policy must be %q or %q, got %q",
			db.ConflictIgnore, db.ConflictReplace, c.Conflict)
	}
	return nil
}
