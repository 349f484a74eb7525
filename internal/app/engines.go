package app

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"rebind/internal/config"
	"rebind/internal/executor"
	"rebind/internal/handlers"
	"rebind/internal/listener"
	"rebind/internal/recon"
	"rebind/pkg/logging"
)

// tcpExtra is the full extra configuration of a TCP listener entry.
type tcpExtra = listener.TCPParams[handlers.Options]

// engines bundles the per-protocol reconcilers and their installers.
// Each protocol has its own cache; a reconfiguration reconciles both.
type engines struct {
	tcp          *recon.Reconciler[listener.Address, tcpExtra, *net.TCPListener]
	udp          *recon.Reconciler[listener.Address, handlers.Options, *net.UDPConn]
	tcpInstaller *recon.Installer[tcpExtra, *net.TCPListener]
	udpInstaller *recon.Installer[handlers.Options, *net.UDPConn]
}

func newEngines() *engines {
	tcp := recon.New[listener.Address, tcpExtra]("tcp-listener", listener.BuildTCP)
	udp := recon.New[listener.Address, handlers.Options]("udp-listener", listener.BuildUDP)

	tcpConstruct := listener.TCPRunner("tcp-listener", func(ctx context.Context, conn net.Conn, opts handlers.Options) error {
		h, ok := handlers.TCP(opts.Handler)
		if !ok {
			// Extraction refuses unknown handlers, so this only fires if
			// the registry shrank underneath a running configuration.
			return fmt.Errorf("unknown tcp handler %q", opts.Handler)
		}
		return h(ctx, conn, opts)
	})
	udpConstruct := listener.UDPRunner("udp-listener", func(ctx context.Context, conn *net.UDPConn, opts handlers.Options) error {
		h, ok := handlers.UDP(opts.Handler)
		if !ok {
			return fmt.Errorf("unknown udp handler %q", opts.Handler)
		}
		return h(ctx, conn, opts)
	})

	return &engines{
		tcp:          tcp,
		udp:          udp,
		tcpInstaller: tcp.Installer(tcpConstruct),
		udpInstaller: udp.Installer(udpConstruct),
	}
}

// run starts both installer loops on the executor.
func (e *engines) run(ctx context.Context, exec executor.Executor) {
	exec.Spawn(func() { e.tcpInstaller.Run(ctx, exec) })
	exec.Spawn(func() { e.udpInstaller.Run(ctx, exec) })
}

// reconcile runs one pass per protocol against a loaded configuration
// and logs the diagnostics. Failures in one listener never abort the
// others or the process.
func (e *engines) reconcile(cfg config.Config) {
	logDiagnostics("tcp-listener", e.tcp.Reconcile(extractTCP(cfg)))
	logDiagnostics("udp-listener", e.udp.Reconcile(extractUDP(cfg)))
}

// close tears everything down synchronously, in the same way a single
// scale-down would, generalized to scale-to-zero everywhere.
func (e *engines) close() {
	e.tcp.Close()
	e.udp.Close()
}

// extractTCP converts the TCP listeners of a loaded configuration into
// reconciliation items. A listener naming an unknown handler becomes an
// item carrying an error diagnostic; the engine reports and skips it
// without touching its siblings.
func extractTCP(cfg config.Config) []recon.Item[listener.Address, tcpExtra] {
	var items []recon.Item[listener.Address, tcpExtra]
	for _, l := range cfg.Listeners {
		if l.Protocol != config.ProtocolTCP {
			continue
		}
		var diags recon.Diagnostics
		if _, ok := handlers.TCP(l.Handler); !ok {
			diags.Errorf("listener %q: unknown tcp handler %q (available: %s)",
				l.Name, l.Handler, strings.Join(handlers.TCPNames(), ", "))
		}
		items = append(items, recon.Item[listener.Address, tcpExtra]{
			Descriptor: listener.Address{Host: l.Host, Port: l.Port},
			Extra: tcpExtra{
				App:        extractOptions(l),
				ErrorSleep: time.Duration(l.ErrorSleepMS) * time.Millisecond,
				MaxConn:    l.MaxConn,
			},
			Scale: extractScale(l),
			Diags: diags,
		})
	}
	return items
}

// extractUDP is the UDP counterpart of extractTCP.
func extractUDP(cfg config.Config) []recon.Item[listener.Address, handlers.Options] {
	var items []recon.Item[listener.Address, handlers.Options]
	for _, l := range cfg.Listeners {
		if l.Protocol != config.ProtocolUDP {
			continue
		}
		var diags recon.Diagnostics
		if _, ok := handlers.UDP(l.Handler); !ok {
			diags.Errorf("listener %q: unknown udp handler %q (available: %s)",
				l.Name, l.Handler, strings.Join(handlers.UDPNames(), ", "))
		}
		items = append(items, recon.Item[listener.Address, handlers.Options]{
			Descriptor: listener.Address{Host: l.Host, Port: l.Port},
			Extra:      extractOptions(l),
			Scale:      extractScale(l),
			Diags:      diags,
		})
	}
	return items
}

func extractOptions(l config.ListenerConfig) handlers.Options {
	return handlers.Options{
		Handler:     l.Handler,
		Greeting:    l.Greeting,
		IdleTimeout: l.IdleTimeout.Std(),
	}
}

func extractScale(l config.ListenerConfig) recon.ScalePolicy {
	if l.Scale == nil {
		return recon.Fixed{Count: 1}
	}
	return recon.Fixed{Count: *l.Scale}
}

func logDiagnostics(name string, diags recon.Diagnostics) {
	for _, d := range diags.Entries() {
		switch d.Level {
		case recon.DiagError:
			logging.Error(name, nil, "%s", d.Message)
		default:
			logging.Warn(name, "%s", d.Message)
		}
	}
}
