package app

import "rebind/internal/config"

// Config carries the command-line level settings the serve command
// resolved before bootstrap.
type Config struct {
	// Debug forces debug-level logging regardless of the configuration
	// file's logging section.
	Debug bool

	// ConfigPath is the configuration file to load and watch. Empty
	// means the default XDG location.
	ConfigPath string
}

// NewConfig creates the application configuration, filling in the
// default configuration path when none was given.
func NewConfig(debug bool, configPath string) *Config {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}
