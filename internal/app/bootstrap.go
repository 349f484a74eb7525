package app

import (
	"os"

	"rebind/internal/config"
	"rebind/internal/executor"
	"rebind/pkg/logging"
)

// Application owns the daemon's runtime state: the loaded configuration,
// the per-protocol reconciliation engines and the executor everything
// runs on.
type Application struct {
	cfg     *Config
	fileCfg config.Config
	engines *engines
	exec    executor.Executor
}

// NewApplication loads the configuration file and wires up the engines.
// It does not bind any sockets yet; Run performs the first
// reconciliation pass.
func NewApplication(cfg *Config) (*Application, error) {
	// Bootstrap with a provisional level so config loading itself is
	// observable; re-init below once the file told us what it wants.
	bootLevel := logging.LevelInfo
	if cfg.Debug {
		bootLevel = logging.LevelDebug
	}
	logging.Init(bootLevel, os.Stderr)

	fileCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	if !cfg.Debug {
		logging.Init(logging.ParseLevel(fileCfg.Logging.Level), os.Stderr)
	}

	// The default pooled executor, unless an embedder registered its
	// own before calling us.
	executor.Register(executor.NewPool(0))

	return &Application{
		cfg:     cfg,
		fileCfg: fileCfg,
		engines: newEngines(),
		exec:    executor.Active(),
	}, nil
}
