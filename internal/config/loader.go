package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"rebind/pkg/logging"
)

const (
	appConfigDir   = "rebind"
	configFileName = "config.yaml"
)

// DefaultPath returns the default configuration file location,
// $XDG_CONFIG_HOME/rebind/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appConfigDir, configFileName)
}

// Load reads and validates the configuration file at path. A missing
// file yields the default configuration (no listeners) rather than an
// error, so a freshly installed daemon starts idle instead of failing.
func Load(path string) (Config, error) {
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config file at %s, using defaults", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config from %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s (%d listeners)", path, len(cfg.Listeners))
	return cfg, nil
}
