package recon

import (
	"sync"
	"time"

	"rebind/pkg/logging"
)

// EventKind identifies what happened to the engine or to one instance.
type EventKind string

const (
	// EventPassCommitted fires after a reconciliation pass swapped in a
	// new cache and enqueued its install requests.
	EventPassCommitted EventKind = "PassCommitted"
	// EventPassRejected fires when a pass was discarded and the previous
	// cache remained authoritative.
	EventPassRejected EventKind = "PassRejected"
	// EventInstanceStarted fires when the installer spawned an instance task.
	EventInstanceStarted EventKind = "InstanceStarted"
	// EventInstanceStopped fires after an instance task fully terminated,
	// just before its teardown confirmation is signalled.
	EventInstanceStopped EventKind = "InstanceStopped"
)

// Event describes one engine lifecycle occurrence.
type Event struct {
	Kind      EventKind
	Name      string // engine name
	Label     string // descriptor label, empty for pass events
	Instance  string // instance id, empty for pass events
	Err       error  // terminal error of an instance, if any
	Timestamp time.Time
}

// broadcaster fans events out to subscriber channels without ever
// blocking the engine. A subscriber that cannot keep up misses events.
type broadcaster struct {
	mu   sync.RWMutex
	subs []chan<- Event
}

func (b *broadcaster) subscribe() <-chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *broadcaster) publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	b.mu.RLock()
	subs := make([]chan<- Event, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- ev:
		default:
			logging.Debug("Events", "Subscriber blocked, skipping %s event for %s", ev.Kind, ev.Name)
		}
	}
}
