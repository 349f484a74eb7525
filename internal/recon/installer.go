package recon

import (
	"context"
	"errors"

	"rebind/internal/executor"
	"rebind/pkg/logging"
)

// Constructor turns the shared built resource plus the extra
// configuration into one instance's unit of work. It is invoked by the
// installer once per spawned instance.
type Constructor[E comparable, R any] func(resource R, extra E) Task

// Installer is the runtime-resident loop that consumes install requests
// and spawns each as a supervised task on the executor, wrapped in
// cancellation-on-drop-request semantics.
type Installer[E comparable, R any] struct {
	name      string
	construct Constructor[E, R]
	installs  *queue[install[E, R]]
	events    *broadcaster
}

// Installer creates the installer bound to this reconciler's install
// queue. It must be started (Run) before the first reconciliation pass
// commits, otherwise teardown handshakes for committed installs would
// have nobody to talk to.
func (r *Reconciler[D, E, R]) Installer(construct Constructor[E, R]) *Installer[E, R] {
	return &Installer[E, R]{
		name:      r.name,
		construct: construct,
		installs:  r.installs,
		events:    &r.events,
	}
}

// Run consumes install requests until the context is cancelled or the
// queue is shut down and drained. Each request is spawned as an
// independent task; requests are received in enqueue order but the
// spawned instances run concurrently with no ordering among themselves.
func (ins *Installer[E, R]) Run(ctx context.Context, exec executor.Executor) {
	logging.Debug("Installer", "Installer for %s running", ins.name)
	for {
		in, ok := ins.installs.Get(ctx)
		if !ok {
			logging.Debug("Installer", "Installer for %s stopped", ins.name)
			return
		}
		exec.Spawn(func() {
			ins.runInstance(ctx, in)
		})
	}
}

// runInstance is the body of one instance task. It races the unit of
// work against the instance's drop request; whichever completes first
// wins. Either way the unit of work is fully unwound (releasing any OS
// resource it held) before the teardown confirmation fires.
func (ins *Installer[E, R]) runInstance(ctx context.Context, in install[E, R]) {
	logging.Debug("Installer", "Installing %s instance %s for %s", ins.name, in.id, in.label)
	ins.events.publish(Event{Kind: EventInstanceStarted, Name: ins.name, Label: in.label, Instance: in.id})

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	task := ins.construct(in.resource, in.extra)
	go func() {
		done <- task(taskCtx)
	}()

	var err error
	select {
	case err = <-done:
	case <-in.dropReq:
		cancel()
		// Wait for the unit of work to fully unwind before confirming.
		err = <-done
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		// A failing instance is terminated, not escalated; siblings and
		// the process are unaffected.
		logging.Error("Installer", err, "Task %s on %s failed", ins.name, in.label)
	} else {
		err = nil
		logging.Debug("Installer", "Terminated %s instance %s on %s", ins.name, in.id, in.label)
	}

	ins.events.publish(Event{Kind: EventInstanceStopped, Name: ins.name, Label: in.label, Instance: in.id, Err: err})

	// Closing a channel never blocks: if nobody waits for the
	// confirmation (shutdown raced ahead), this is a no-op.
	close(in.confirm)
}
