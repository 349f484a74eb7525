package executor

import "sync"

// serial executes tasks one after another, in submission order, on a
// single goroutine. Tasks interleave with nothing; useful for
// deterministic tests. A task that never returns starves the executor,
// so serial is unsuitable for long-running instance tasks.
type serial struct {
	mu      sync.Mutex
	pending []func()
	running bool
	wg      sync.WaitGroup
}

// NewSerial creates the single-threaded executor variant.
func NewSerial() Executor {
	return &serial{}
}

func (s *serial) Spawn(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.wg.Add(1)
	start := !s.running
	if start {
		s.running = true
	}
	s.mu.Unlock()

	if start {
		go s.drain()
	}
}

func (s *serial) drain() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		fn := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		fn()
		s.wg.Done()
	}
}

func (s *serial) Wait() {
	s.wg.Wait()
}
