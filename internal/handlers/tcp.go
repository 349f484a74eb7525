package handlers

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// TCPHandler processes one accepted connection.
type TCPHandler func(ctx context.Context, conn net.Conn, opts Options) error

// Echo writes every byte it reads back to the peer until the connection
// closes or stays idle past the configured timeout.
func Echo(ctx context.Context, conn net.Conn, opts Options) error {
	buf := make([]byte, 4096)
	for {
		if opts.IdleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(opts.IdleTimeout)); err != nil {
				return err
			}
		}
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				// Idle sessions end quietly.
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Hello writes the configured greeting and hangs up.
func Hello(ctx context.Context, conn net.Conn, opts Options) error {
	greeting := opts.Greeting
	if greeting == "" {
		greeting = DefaultGreeting
	}
	_, err := io.WriteString(conn, greeting)
	return err
}

// Discard reads and drops everything until the peer closes.
func Discard(ctx context.Context, conn net.Conn, opts Options) error {
	_, err := io.Copy(io.Discard, conn)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
