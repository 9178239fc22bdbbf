package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all tripcast configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Categories CategoriesConfig `toml:"categories"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath      string `toml:"db_path,omitempty"`
	DefaultTrip string `toml:"default_trip,omitempty"`
	LedgerDir   string `toml:"ledger_dir,omitempty"`
}

// DaemonConfig holds settings for the background forecast service.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	Schedule     string `toml:"schedule"`
	EventsBuffer int    `toml:"events_buffer"`
	AllTrips     bool   `toml:"all_trips"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Categories: CategoriesConfig{
			Defaults: append([]string(nil), DefaultCategories...),
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8742",
			Schedule:     "@every 15s",
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripcast")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the ledger.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tripcast")
}

// DBPath returns the ledger database path, honouring the configured override.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return filepath.Join(DataDir(), "ledger.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Values from a .env file in the working directory and TRIPCAST_* variables
// override the file.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}

	_ = godotenv.Load()
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads a config file at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Categories.Validate(); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path, creating parent directories.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
