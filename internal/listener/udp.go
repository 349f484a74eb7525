package listener

import (
	"context"
	"fmt"
	"net"

	"rebind/internal/recon"
)

// PacketHandler drives one UDP instance. Unlike a TCP connection
// handler it owns the whole socket clone for the lifetime of the
// instance; it must return when the context is cancelled (the socket is
// closed underneath it to unblock reads).
type PacketHandler[E comparable] func(ctx context.Context, conn *net.UDPConn, app E) error

// UDPRunner returns the task constructor for UDP sockets: each instance
// clones the shared socket's descriptor and runs the handler on it.
func UDPRunner[E comparable](name string, handler PacketHandler[E]) recon.Constructor[E, *net.UDPConn] {
	return func(base *net.UDPConn, app E) recon.Task {
		return func(ctx context.Context) error {
			conn, err := cloneUDP(base)
			if err != nil {
				return err
			}
			defer conn.Close()

			stop := make(chan struct{})
			defer close(stop)
			go func() {
				select {
				case <-ctx.Done():
					conn.Close()
				case <-stop:
				}
			}()

			err = handler(ctx, conn, app)
			if ctx.Err() != nil {
				// Read errors caused by the cancellation close are not
				// failures of the instance.
				return nil
			}
			return err
		}
	}
}

// cloneUDP duplicates the shared socket's file descriptor into a socket
// owned by one instance.
func cloneUDP(base *net.UDPConn) (*net.UDPConn, error) {
	f, err := base.File()
	if err != nil {
		return nil, fmt.Errorf("clone udp socket: %w", err)
	}
	defer f.Close()

	pc, err := net.FilePacketConn(f)
	if err != nil {
		return nil, fmt.Errorf("clone udp socket: %w", err)
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, fmt.Errorf("clone udp socket: unexpected type %T", pc)
	}
	return conn, nil
}
