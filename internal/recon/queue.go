package recon

import (
	"context"
	"sync"
)

// queue is an unbounded, ordered, multi-producer/single-consumer FIFO
// carrying install requests from the reconciler to the installer loop.
//
// Unlike a work queue there is no deduplication: every install request
// is consumed exactly once. After Shutdown the queue keeps handing out
// already-enqueued items until drained, so installs committed just
// before shutdown still get spawned (their handles may be blocking on
// the teardown handshake).
type queue[T any] struct {
	mu sync.Mutex

	// items holds requests in FIFO order
	items []T

	// cond is used for blocking Get operations
	cond *sync.Cond

	// shuttingDown indicates the queue is stopping
	shuttingDown bool
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add enqueues an item. It reports false if the queue has been shut
// down, in which case the item was not enqueued.
func (q *queue[T]) Add(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shuttingDown {
		return false
	}

	q.items = append(q.items, item)
	q.cond.Signal()
	return true
}

// Get retrieves the next item, blocking until one is available, the
// context is cancelled, or the queue is shut down and drained.
func (q *queue[T]) Get(ctx context.Context) (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	for len(q.items) == 0 && !q.shuttingDown {
		select {
		case <-ctx.Done():
			return zero, false
		default:
		}

		// The helper goroutine races context cancellation against a
		// normal wakeup. Closing done ensures it exits regardless of
		// which wins.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.cond.Broadcast()
				q.mu.Unlock()
			case <-done:
			}
		}()

		q.cond.Wait()
		close(done)

		select {
		case <-ctx.Done():
			return zero, false
		default:
		}
	}

	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of pending items.
func (q *queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Shutdown stops the queue. Pending items remain retrievable via Get.
func (q *queue[T]) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shuttingDown = true
	q.cond.Broadcast()
}
