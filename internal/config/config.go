package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Log       LogConfig
	Storage   StorageConfig
	History   HistoryConfig
}

// DatabaseConfig holds sqlite settings. Driver is "sqlite3" (cgo) or
// "sqlite" (pure Go).
type DatabaseConfig struct {
	Path   string
	Driver string
}

// SchedulerConfig sets how often the desktop advances one scheduler turn.
type SchedulerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

type LogConfig struct {
	Path string
}

// StorageConfig controls the disk image at boot. Seed installs the sample
// programs into an empty disk; Reset wipes the stored disk and history first.
type StorageConfig struct {
	Seed  bool
	Reset bool
}

// HistoryConfig bounds the run history; Keep <= 0 keeps everything.
type HistoryConfig struct {
	Keep int
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "quadpane")
}

// Load reads configuration from file and env. Env var overrides use prefix QUADPANE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "quadpane.db"))
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("scheduler.tick_interval", "20ms")
	v.SetDefault("log.path", filepath.Join(dataDir(), "quadpane.log"))
	v.SetDefault("storage.seed", true)
	v.SetDefault("storage.reset", false)
	v.SetDefault("history.keep", 200)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("QUADPANE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "quadpane"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("QUADPANE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Scheduler.TickInterval <= 0 {
		return Config{}, fmt.Errorf("scheduler.tick_interval must be positive, got %s", c.Scheduler.TickInterval)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The one-shot storage.reset flag is never written.
func Save(cfg Config) error {
	path := os.Getenv("QUADPANE_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "quadpane", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("scheduler.tick_interval", cfg.Scheduler.TickInterval.String())
	v.Set("log.path", cfg.Log.Path)
	v.Set("storage.seed", cfg.Storage.Seed)
	v.Set("history.keep", cfg.History.Keep)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
