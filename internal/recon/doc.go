// Package recon implements the reconciliation engine at the heart of
// rebind: given the set of live resource instances and a freshly loaded
// configuration, it computes the minimal set of create/keep/scale/
// destroy operations and applies them without leaking or double-binding
// OS resources.
//
// The engine is generic over three types: a comparable descriptor D
// identifying one logical resource (for TCP listeners, a host:port
// pair), a comparable extra configuration E that parameterizes running
// instances without affecting resource identity, and the built resource
// R itself (for TCP, the bound listening socket).
//
// One Reconciler owns the cache for one resource type. Reconcile runs a
// pass under the reconciler's lock: descriptors present in both cache
// and configuration reuse their built resource; new descriptors get
// their resource built; descriptors that disappeared are torn down.
// Changing the extra configuration of an existing descriptor replaces
// all of its instances, because there is no cheaper way to propagate it
// into already-spawned tasks. Scaling truncates or extends the entry's
// instance list; each new instance travels to the Installer as an
// install request over an unbounded FIFO.
//
// Teardown is synchronous: every instance is represented by a Handle
// whose Close blocks until the instance task has fully unwound and
// released its resources. Process shutdown is the same mechanism
// applied everywhere at once (Reconciler.Close).
//
// A pass is atomic with respect to observers: the cache is swapped only
// after every descriptor was processed and the acceptance hook agreed,
// even though resource building happens speculatively. A rejected pass
// releases everything it built and leaves the old cache authoritative.
//
// One known, accepted overlap: install requests are enqueued before the
// pass closes its orphaned handles, so replacement instances (after an
// extra configuration change) can start while the instances they
// replace are still confirming their teardown. Both generations share
// the same built resource, so nothing double-binds; clients may briefly
// be served by either generation.
package recon
