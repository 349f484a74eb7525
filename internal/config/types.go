package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure for rebind.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging,omitempty"`
	Listeners []ListenerConfig `yaml:"listeners"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug|info|warn|error (default: info)
}

// Protocol names accepted in listener configuration.
const (
	ProtocolTCP = "tcp"
	ProtocolUDP = "udp"
)

// ListenerConfig describes one managed listening socket. Host and Port
// identify the resource; everything else parameterizes its running
// instances and takes effect through instance replacement on reload.
type ListenerConfig struct {
	Name     string `yaml:"name"`               // unique, used in logs and diagnostics
	Protocol string `yaml:"protocol,omitempty"` // tcp|udp (default: tcp)
	Handler  string `yaml:"handler,omitempty"`  // handler name (default: echo)
	Host     string `yaml:"host,omitempty"`     // default: "::"
	Port     uint16 `yaml:"port"`               // mandatory

	// Scale is the desired instance count. Unset means one; an explicit
	// zero is coerced to one with a warning during reconciliation.
	Scale *int `yaml:"scale,omitempty"`

	ErrorSleepMS int   `yaml:"error-sleep-ms,omitempty"` // default: 100 (tcp only)
	MaxConn      int64 `yaml:"max-conn,omitempty"`       // default: 1000 (tcp only)

	// Handler options.
	Greeting    string   `yaml:"greeting,omitempty"`
	IdleTimeout Duration `yaml:"idle-timeout,omitempty"`
}

// Duration wraps time.Duration so yaml values like "30s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
