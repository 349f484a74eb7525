package app

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/fsnotify/fsnotify"

	"rebind/internal/config"
	"rebind/pkg/logging"
)

// Quiet window after a config file event before reloading. Editors
// typically produce a burst of writes and renames per save.
const reloadDebounce = 250 * time.Millisecond

// Run performs the initial reconciliation and then serves reload and
// shutdown requests until the context is cancelled or a termination
// signal arrives. Reloads are triggered by SIGHUP and by changes to the
// configuration file itself.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.engines.run(ctx, a.exec)
	a.engines.reconcile(a.fileCfg)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	watchCh := a.watchConfig(ctx)

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn("Application", "sd_notify READY failed: %v", err)
	}
	logging.Info("Application", "Serving (config: %s)", a.cfg.ConfigPath)

	var debounce *time.Timer
	var debounceCh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			a.shutdown(cancel)
			return nil
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logging.Info("Application", "Received SIGHUP, reloading configuration")
				a.reload()
				continue
			}
			logging.Info("Application", "Received %s, shutting down", sig)
			a.shutdown(cancel)
			return nil
		case <-watchCh:
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
				debounceCh = debounce.C
			} else {
				if !debounce.Stop() {
					<-debounce.C
				}
				debounce.Reset(reloadDebounce)
			}
		case <-debounceCh:
			debounce = nil
			debounceCh = nil
			logging.Info("Application", "Configuration file changed, reloading")
			a.reload()
		}
	}
}

// reload loads the configuration file again and reconciles. On a load
// failure the running listeners are kept untouched and the error is
// reported; a bad edit never takes the service down.
func (a *Application) reload() {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReloading); err != nil {
		logging.Debug("Application", "sd_notify RELOADING failed: %v", err)
	}
	defer func() {
		if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			logging.Debug("Application", "sd_notify READY failed: %v", err)
		}
	}()

	fileCfg, err := config.Load(a.cfg.ConfigPath)
	if err != nil {
		logging.Error("Application", err, "Reload failed, keeping previous configuration")
		return
	}

	a.fileCfg = fileCfg
	if !a.cfg.Debug {
		logging.Init(logging.ParseLevel(fileCfg.Logging.Level), os.Stderr)
	}
	a.engines.reconcile(fileCfg)
}

// shutdown tears the listeners down synchronously, then cancels the
// instance tasks' context and waits for the executor to drain.
func (a *Application) shutdown(cancel context.CancelFunc) {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		logging.Debug("Application", "sd_notify STOPPING failed: %v", err)
	}

	logging.Info("Application", "Shutting down listeners")
	a.engines.close()
	cancel()
	a.exec.Wait()
	logging.Info("Application", "Shutdown complete")
}

// watchConfig watches the configuration file's directory and forwards
// events that concern the file itself. Watching the directory instead of
// the file survives the rename-and-replace dance most editors and
// configuration management tools do.
func (a *Application) watchConfig(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("Application", "Config watching disabled: %v", err)
		return out
	}

	dir := filepath.Dir(a.cfg.ConfigPath)
	if err := watcher.Add(dir); err != nil {
		logging.Warn("Application", "Config watching disabled, cannot watch %s: %v", dir, err)
		watcher.Close()
		return out
	}

	target := filepath.Clean(a.cfg.ConfigPath)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn("Application", "Config watcher error: %v", err)
			}
		}
	}()
	return out
}
