package recon

import (
	"sync"

	"rebind/pkg/logging"
)

// Handle is the owner-side token for one running instance task.
//
// It pairs a close-once drop-request channel with a confirmation channel
// that the instance task closes only after its unit of work has fully
// unwound and released whatever OS resource it held. Exactly one Handle
// exists per live instance.
//
// Close requests the drop and then blocks the caller until the
// confirmation arrives. This is the one intentionally blocking wait in
// the engine: teardown must be synchronous from the reconciler's point
// of view, so that a removed or replaced instance is known to be gone
// before the pass that removed it completes.
type Handle struct {
	dropReq chan struct{}
	confirm chan struct{}
	once    sync.Once
}

// newHandle creates a handle together with the receiver/sender pair that
// travels to the instance task inside its install request.
func newHandle() *Handle {
	return &Handle{
		dropReq: make(chan struct{}),
		confirm: make(chan struct{}),
	}
}

// Close requests termination of the instance and waits for it to confirm.
// It is safe to call multiple times; only the first call performs the
// handshake, later calls return immediately.
func (h *Handle) Close() {
	h.once.Do(func() {
		logging.Debug("Handle", "Requesting remote drop")
		close(h.dropReq)
		<-h.confirm
		logging.Debug("Handle", "Remote drop done")
	})
}
