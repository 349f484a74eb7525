package config

import "strconv"

// Validate checks structural configuration problems that should reject
// the whole file: missing or duplicate identities and unknown
// protocols. Per-listener conditions the engine can tolerate (like an
// explicit scale of zero) are left to reconciliation diagnostics.
func Validate(cfg Config) error {
	verr := &ValidationError{}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		verr.add("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}

	names := make(map[string]bool, len(cfg.Listeners))
	bindings := make(map[string]string, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		if l.Name == "" {
			verr.add("listeners[%d]: name is required", i)
			continue
		}
		if names[l.Name] {
			verr.add("listener %q: duplicate name", l.Name)
		}
		names[l.Name] = true

		if l.Protocol != ProtocolTCP && l.Protocol != ProtocolUDP {
			verr.add("listener %q: unknown protocol %q", l.Name, l.Protocol)
		}
		if l.Port == 0 {
			verr.add("listener %q: port is required", l.Name)
		}

		// Two listeners describing the same binding would fight over one
		// cache entry during reconciliation.
		binding := l.Protocol + "/" + l.Host + ":" + strconv.Itoa(int(l.Port))
		if other, ok := bindings[binding]; ok {
			verr.add("listener %q: same protocol, host and port as listener %q", l.Name, other)
		} else {
			bindings[binding] = l.Name
		}

		if l.Scale != nil && *l.Scale < 0 {
			verr.add("listener %q: scale must not be negative", l.Name)
		}
		if l.ErrorSleepMS < 0 {
			verr.add("listener %q: error-sleep-ms must not be negative", l.Name)
		}
		if l.MaxConn < 0 {
			verr.add("listener %q: max-conn must not be negative", l.Name)
		}
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}
