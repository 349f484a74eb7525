package executor

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"rebind/pkg/logging"
)

// Executor is the concurrent task runtime everything in rebind runs on:
// the application body, the installer loops, and every spawned instance
// task share one executor.
type Executor interface {
	// Spawn schedules fn as an independent task. Depending on the
	// variant this may block until capacity is available.
	Spawn(fn func())

	// Wait blocks until every spawned task has returned.
	Wait()
}

var (
	regMu  sync.Mutex
	active Executor
)

// Register selects the process-wide executor. Registration is
// idempotent with first-registration-wins semantics: if an executor is
// already active, Register is a no-op and returns false.
func Register(e Executor) bool {
	regMu.Lock()
	defer regMu.Unlock()

	if active != nil {
		logging.Debug("Executor", "Executor already registered, keeping the active one")
		return false
	}
	active = e
	return true
}

// Active returns the registered executor, installing the default pooled
// executor if none was registered yet.
func Active() Executor {
	regMu.Lock()
	defer regMu.Unlock()

	if active == nil {
		active = NewPool(0)
	}
	return active
}

// reset clears the registration. Tests only.
func reset() {
	regMu.Lock()
	defer regMu.Unlock()
	active = nil
}

// pool runs each task on its own goroutine, optionally bounding how many
// run concurrently. This is the default variant; the Go scheduler
// provides the worker threads underneath.
type pool struct {
	g errgroup.Group
}

// NewPool creates a pooled executor. A limit above zero bounds the
// number of concurrently running tasks (Spawn blocks while the pool is
// saturated); zero or below means unbounded.
func NewPool(limit int) Executor {
	p := &pool{}
	if limit > 0 {
		p.g.SetLimit(limit)
	}
	return p
}

func (p *pool) Spawn(fn func()) {
	p.g.Go(func() error {
		fn()
		return nil
	})
}

func (p *pool) Wait() {
	_ = p.g.Wait()
}

// custom delegates spawning to a caller-supplied driver while still
// tracking completion for Wait.
type custom struct {
	spawn func(func())
	wg    sync.WaitGroup
}

// NewCustom creates an executor that hands every task to the supplied
// spawn function. The caller's driver decides how and where it runs.
func NewCustom(spawn func(func())) Executor {
	return &custom{spawn: spawn}
}

func (c *custom) Spawn(fn func()) {
	c.wg.Add(1)
	c.spawn(func() {
		defer c.wg.Done()
		fn()
	})
}

func (c *custom) Wait() {
	c.wg.Wait()
}
