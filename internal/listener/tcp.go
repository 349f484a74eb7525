package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/semaphore"

	"rebind/internal/recon"
	"rebind/pkg/logging"
)

const (
	// DefaultErrorSleep is how long an instance pauses after a transient
	// accept error ("too many open files" and friends) before accepting
	// again.
	DefaultErrorSleep = 100 * time.Millisecond

	// DefaultMaxConn caps the parallel connections per instance. The
	// total for a descriptor is scale * max-conn.
	DefaultMaxConn = 1000
)

// TCPParams is the extra configuration of one TCP listener entry. It
// rides next to the descriptor rather than inside it: changing any of
// these replaces the running instances without rebinding the socket.
type TCPParams[E comparable] struct {
	App        E
	ErrorSleep time.Duration
	MaxConn    int64
}

// ConnHandler processes one accepted connection. Returning an error
// logs it; it is never escalated past the connection.
type ConnHandler[E comparable] func(ctx context.Context, conn net.Conn, app E) error

// TCPRunner returns the task constructor for TCP listeners: each
// instance clones the shared listener's descriptor so its teardown
// closes only its own clone, then accepts connections until cancelled,
// handing each to the handler on its own goroutine.
func TCPRunner[E comparable](name string, handler ConnHandler[E]) recon.Constructor[TCPParams[E], *net.TCPListener] {
	return func(base *net.TCPListener, params TCPParams[E]) recon.Task {
		return func(ctx context.Context) error {
			return acceptLoop(ctx, name, base, params, handler)
		}
	}
}

func acceptLoop[E comparable](ctx context.Context, name string, base *net.TCPListener, params TCPParams[E], handler ConnHandler[E]) error {
	ln, err := cloneListener(base)
	if err != nil {
		return err
	}
	defer ln.Close()

	// Closing the clone is what unblocks Accept on cancellation.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	errorSleep := params.ErrorSleep
	if errorSleep <= 0 {
		errorSleep = DefaultErrorSleep
	}
	maxConn := params.MaxConn
	if maxConn <= 0 {
		maxConn = DefaultMaxConn
	}
	sem := semaphore.NewWeighted(maxConn)

	for {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil
		}
		conn, err := ln.Accept()
		if err != nil {
			sem.Release(1)
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			// Recoverable accept errors get a breather instead of a hot
			// retry loop.
			logging.Warn("Listener", "Accept on %s failed, sleeping %s: %v", name, errorSleep, err)
			select {
			case <-time.After(errorSleep):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		// Accepted connections are independent of the instance: they
		// linger past its teardown, only the listening socket goes away.
		go func() {
			defer sem.Release(1)
			defer conn.Close()
			if err := handler(ctx, conn, params.App); err != nil {
				logging.Error("Listener", err, "Failed to handle connection on %s", name)
			}
		}()
	}
}

// cloneListener duplicates the shared listener's file descriptor into a
// listener owned by one instance.
func cloneListener(base *net.TCPListener) (net.Listener, error) {
	f, err := base.File()
	if err != nil {
		return nil, fmt.Errorf("clone listener: %w", err)
	}
	defer f.Close()

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, fmt.Errorf("clone listener: %w", err)
	}
	return ln, nil
}
