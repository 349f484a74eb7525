package config

// Defaults applied to fields the configuration leaves unset.
const (
	DefaultLogLevel     = "info"
	DefaultProtocol     = ProtocolTCP
	DefaultHandler      = "echo"
	DefaultErrorSleepMS = 100
	DefaultMaxConn      = 1000
)

// GetDefaultConfig returns the configuration used when no file exists:
// logging at info level and no listeners.
func GetDefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// ApplyDefaults fills unset fields in place. It is called by the loader
// after unmarshalling, so validation and extraction always see complete
// values.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	for i := range cfg.Listeners {
		l := &cfg.Listeners[i]
		if l.Protocol == "" {
			l.Protocol = DefaultProtocol
		}
		if l.Handler == "" {
			l.Handler = DefaultHandler
		}
		if l.ErrorSleepMS == 0 {
			l.ErrorSleepMS = DefaultErrorSleepMS
		}
		if l.MaxConn == 0 {
			l.MaxConn = DefaultMaxConn
		}
	}
}
