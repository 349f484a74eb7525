package handlers

import (
	"context"
	"errors"
	"net"
)

// UDPHandler drives one UDP socket instance for its whole lifetime.
type UDPHandler func(ctx context.Context, conn *net.UDPConn, opts Options) error

// UDPEcho sends every datagram back to its sender until the socket is
// closed underneath it on teardown.
func UDPEcho(ctx context.Context, conn *net.UDPConn, opts Options) error {
	buf := make([]byte, 64*1024)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if _, err := conn.WriteToUDP(buf[:n], addr); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
