package recon

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"rebind/pkg/logging"
)

// Builder creates the shared, OS-level resource for one descriptor, for
// example a bound listening socket. It is invoked at most once per
// distinct descriptor; the result is shared read-only across all scaled
// instances of that descriptor.
type Builder[D comparable, R any] func(descriptor D) (R, error)

// Task is one instance's unit of work. It must honor cancellation of the
// supplied context and must have released every resource it owns by the
// time it returns; the teardown confirmation fires only after that.
type Task func(ctx context.Context) error

// Item is one configuration tuple handed to the reconciler: the
// descriptor that identifies the resource, the extra configuration that
// parameterizes its instances, the scale policy, and any diagnostics the
// configuration provider already collected for this item. Items whose
// own diagnostics contain an error are merged into the pass diagnostics
// and otherwise skipped.
type Item[D comparable, E comparable] struct {
	Descriptor D
	Extra      E
	Scale      ScalePolicy
	Diags      Diagnostics
}

// entry is one cache slot: a descriptor, its extra configuration, the
// built resource shared by its instances, and one handle per instance.
type entry[D comparable, E comparable, R any] struct {
	desc     D
	extra    E
	resource R
	handles  []*Handle
}

// install carries everything an instance task needs from the reconciler
// to the installer. It is consumed exactly once.
type install[E comparable, R any] struct {
	resource R
	dropReq  <-chan struct{}
	confirm  chan struct{}
	extra    E
	label    string
	id       string
}

// AcceptFunc decides whether a finished pass is committed. It receives
// the accumulated diagnostics; returning an error rejects the pass.
type AcceptFunc func(Diagnostics) error

// Reconciler owns the cache for one resource type and runs
// reconciliation passes against it. The cache is mutated only under the
// reconciler's lock, held for the duration of one pass (including
// resource building), so no two passes interleave.
type Reconciler[D comparable, E comparable, R any] struct {
	name    string
	build   Builder[D, R]
	accept  AcceptFunc
	labelFn func(D) string

	mu       sync.Mutex
	cache    []entry[D, E, R]
	closed   bool
	installs *queue[install[E, R]]
	events   broadcaster
}

// New creates a reconciler for one resource type. The name shows up in
// logs and diagnostics; build produces the shared resource for a
// descriptor.
func New[D comparable, E comparable, R any](name string, build Builder[D, R]) *Reconciler[D, E, R] {
	return &Reconciler[D, E, R]{
		name:     name,
		build:    build,
		accept:   func(Diagnostics) error { return nil },
		labelFn:  func(d D) string { return fmt.Sprintf("%v", d) },
		installs: newQueue[install[E, R]](),
	}
}

// SetAcceptPolicy replaces the pass acceptance hook. The default accepts
// every pass; per-descriptor build failures stay isolated either way.
// Must be called before the first Reconcile.
func (r *Reconciler[D, E, R]) SetAcceptPolicy(accept AcceptFunc) {
	if accept != nil {
		r.accept = accept
	}
}

// SetLabeler replaces the function that renders a descriptor for logs
// and diagnostics. Must be called before the first Reconcile.
func (r *Reconciler[D, E, R]) SetLabeler(label func(D) string) {
	if label != nil {
		r.labelFn = label
	}
}

// Subscribe returns a channel of engine lifecycle events. Events are
// delivered best-effort; a subscriber that cannot keep up misses them.
func (r *Reconciler[D, E, R]) Subscribe() <-chan Event {
	return r.events.subscribe()
}

// EntryStatus describes one committed cache entry.
type EntryStatus struct {
	Label     string
	Instances int
}

// Status returns a snapshot of the committed cache.
func (r *Reconciler[D, E, R]) Status() []EntryStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]EntryStatus, 0, len(r.cache))
	for _, e := range r.cache {
		out = append(out, EntryStatus{Label: r.labelFn(e.desc), Instances: len(e.handles)})
	}
	return out
}

// Reconcile runs one pass: it diffs the items extracted from a freshly
// loaded configuration against the committed cache, builds resources for
// new descriptors, schedules instance installs for scale-ups and
// teardowns for scale-downs and removals, and finally either commits the
// new cache atomically or discards everything the pass built.
//
// A build failure for one descriptor records a diagnostic and skips that
// descriptor; it never aborts the rest of the pass. Only a rejection by
// the acceptance hook discards the whole pass, in which case the prior
// cache remains authoritative and nothing observable has happened.
func (r *Reconciler[D, E, R]) Reconcile(items []Item[D, E]) Diagnostics {
	r.mu.Lock()
	defer r.mu.Unlock()

	var diags Diagnostics
	if r.closed {
		diags.Errorf("%s: reconciler is closed", r.name)
		return diags
	}

	newCache := make([]entry[D, E, R], 0, len(items))
	var pending []install[E, R]
	var builtThisPass []R
	var orphans []*Handle
	matched := make(map[int]bool, len(r.cache))

	for _, it := range items {
		diags.Merge(it.Diags)
		if it.Diags.HasErrors() {
			continue
		}
		label := r.labelFn(it.Descriptor)

		idx := r.findEntry(it.Descriptor)
		var cached entry[D, E, R]
		if idx >= 0 {
			matched[idx] = true
			prev := r.cache[idx]
			logging.Debug("Reconciler", "Reusing previous %s resource for %s", r.name, label)
			cached = entry[D, E, R]{
				desc:     prev.desc,
				extra:    prev.extra,
				resource: prev.resource,
				handles:  append([]*Handle(nil), prev.handles...),
			}
		} else {
			resource, err := r.build(it.Descriptor)
			if err != nil {
				diags.Errorf("creation of %s for %s failed: %v", r.name, label, err)
				continue
			}
			logging.Debug("Reconciler", "Created new %s resource for %s", r.name, label)
			builtThisPass = append(builtThisPass, resource)
			cached = entry[D, E, R]{desc: it.Descriptor, extra: it.Extra, resource: resource}
		}

		if cached.extra != it.Extra {
			// Changed extra config can only take effect through instance
			// replacement, not live mutation.
			logging.Debug("Reconciler", "Extra config for %s differs, replacing all instances", label)
			orphans = append(orphans, cached.handles...)
			cached.handles = nil
			cached.extra = it.Extra
		}

		desired, scaleDiags := it.Scale.Instances(label)
		diags.Merge(scaleDiags)

		if len(cached.handles) > desired {
			logging.Debug("Reconciler", "Scaling down %s from %d to %d", label, len(cached.handles), desired)
			orphans = append(orphans, cached.handles[desired:]...)
			cached.handles = cached.handles[:desired:desired]
		}
		for len(cached.handles) < desired {
			h := newHandle()
			pending = append(pending, install[E, R]{
				resource: cached.resource,
				dropReq:  h.dropReq,
				confirm:  h.confirm,
				extra:    it.Extra,
				label:    label,
				id:       uuid.NewString(),
			})
			cached.handles = append(cached.handles, h)
		}

		newCache = append(newCache, cached)
	}

	if err := r.accept(diags); err != nil {
		// Discard the pass: nothing was enqueued, the old cache stays
		// authoritative, and resources built speculatively are released.
		for _, in := range pending {
			close(in.confirm)
		}
		for _, resource := range builtThisPass {
			closeResource(any(resource))
		}
		logging.Warn("Reconciler", "Pass for %s rejected: %v", r.name, err)
		r.events.publish(Event{Kind: EventPassRejected, Name: r.name, Err: err})
		return diags
	}

	for _, in := range pending {
		logging.Debug("Reconciler", "Sending %s install for %s to the installer", r.name, in.label)
		if !r.installs.Add(in) {
			// Shutdown raced ahead of this pass; nobody will spawn the
			// instance, so nothing needs confirming.
			close(in.confirm)
		}
	}

	var removedResources []R
	for i, old := range r.cache {
		if matched[i] {
			continue
		}
		orphans = append(orphans, old.handles...)
		removedResources = append(removedResources, old.resource)
	}

	r.cache = newCache

	// Synchronous teardown of everything the new cache no longer holds.
	// Each Close blocks until the instance confirmed its termination.
	for _, h := range orphans {
		h.Close()
	}
	for _, resource := range removedResources {
		closeResource(any(resource))
	}

	logging.Debug("Reconciler", "New version of %s committed (%d entries, %d installs)",
		r.name, len(newCache), len(pending))
	r.events.publish(Event{Kind: EventPassCommitted, Name: r.name})
	return diags
}

// Close models scale-to-zero-everywhere: every outstanding handle is
// closed (blocking until each instance confirms its teardown), every
// cached resource is released, and the install queue is shut down. It is
// idempotent.
func (r *Reconciler[D, E, R]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.installs.Shutdown()

	for _, e := range r.cache {
		for _, h := range e.handles {
			h.Close()
		}
		closeResource(any(e.resource))
	}
	r.cache = nil
	logging.Debug("Reconciler", "Closed %s, all instances torn down", r.name)
}

// findEntry returns the cache index of the entry with an equal
// descriptor, or -1. Equality, not identity: a descriptor freshly parsed
// from configuration matches the cached one it supersedes.
func (r *Reconciler[D, E, R]) findEntry(desc D) int {
	for i, e := range r.cache {
		if e.desc == desc {
			return i
		}
	}
	return -1
}

// closeResource releases a built resource if it knows how to be
// released. Resources that are not io.Closers need no release step.
func closeResource(resource any) {
	if c, ok := resource.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logging.Debug("Reconciler", "Closing resource: %v", err)
		}
	}
}
