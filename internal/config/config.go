// Package config resolves the on-disk locations and runtime settings used by cerebro.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/tailscale/hujson"
)

// FileName is the optional JSONC settings file looked up inside the data directory.
const FileName = "config.jsonc"

// DefaultResyncSchedule is the cron spec used by the watcher for periodic full re-indexing.
const DefaultResyncSchedule = "@every 1h"

var errConfigInvalid = errors.New("invalid config")

// Config holds settings that may come from the config file or the environment.
type Config struct {
	ReportsDir     string `json:"reports_dir"`
	LogLevel       string `json:"log_level"`
	ResyncSchedule string `json:"resync_schedule"`
}

// GetDataDir resolves the base directory for all cerebro storage. CEREBRO_DIR
// wins, then XDG data home, and finally the user's home directory.
func GetDataDir() string {
	if explicit := os.Getenv("CEREBRO_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "cerebro")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "cerebro")
}

// GetDBPath returns the absolute path to the SQLite index database.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "index.db")
}

// GetConfigPath returns the path of the optional config file.
func GetConfigPath() string {
	return filepath.Join(GetDataDir(), FileName)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ReportsDir:     filepath.Join(GetDataDir(), "reports"),
		LogLevel:       "info",
		ResyncSchedule: DefaultResyncSchedule,
	}
}

// Load builds the effective configuration: defaults, then the config file if
// present, then environment overrides.
func Load() (Config, error) {
	cfg := Default()

	fileCfg, loaded, err := loadFile(GetConfigPath())
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg = merge(cfg, fileCfg)
	}

	cfg = merge(cfg, Config{
		ReportsDir: os.Getenv("CEREBRO_REPORTS_DIR"),
		LogLevel:   os.Getenv("CEREBRO_LOG_LEVEL"),
	})

	return cfg, nil
}

// GetReportsDir returns the effective reports root, ignoring config file errors.
func GetReportsDir() string {
	cfg, err := Load()
	if err != nil {
		return Default().ReportsDir
	}
	return cfg.ReportsDir
}

func loadFile(path string) (Config, bool, error) {
	//nolint:gosec // G304: path is derived from the data directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	if cfg.ReportsDir != "" && !filepath.IsAbs(cfg.ReportsDir) {
		cfg.ReportsDir = filepath.Join(filepath.Dir(path), cfg.ReportsDir)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.ReportsDir != "" {
		base.ReportsDir = overlay.ReportsDir
	}
	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}
	if overlay.ResyncSchedule != "" {
		base.ResyncSchedule = overlay.ResyncSchedule
	}
	return base
}
