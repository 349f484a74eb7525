package handlers

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookups(t *testing.T) {
	for _, name := range TCPNames() {
		h, ok := TCP(name)
		assert.True(t, ok)
		assert.NotNil(t, h)
	}
	for _, name := range UDPNames() {
		h, ok := UDP(name)
		assert.True(t, ok)
		assert.NotNil(t, h)
	}

	_, ok := TCP("no-such-handler")
	assert.False(t, ok)
	_, ok = UDP("no-such-handler")
	assert.False(t, ok)
}

func TestRegistryNamesAreSorted(t *testing.T) {
	assert.Equal(t, []string{"discard", "echo", "hello"}, TCPNames())
	assert.Equal(t, []string{"echo"}, UDPNames())
}

func TestEchoRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	done := make(chan error, 1)
	go func() {
		done <- Echo(context.Background(), server, Options{})
	}()

	_, err := client.Write([]byte("hello there"))
	require.NoError(t, err)
	buf := make([]byte, 11)
	_, err = io.ReadFull(client, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello there", string(buf))

	// Peer hangup ends the session without error.
	client.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("echo session did not end on hangup")
	}
}

func TestEchoIdleTimeout(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	done := make(chan error, 1)
	go func() {
		done <- Echo(context.Background(), server, Options{IdleTimeout: 30 * time.Millisecond})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err, "an idle session ends quietly")
	case <-time.After(2 * time.Second):
		t.Fatal("idle session was not timed out")
	}
}

func TestHelloWritesGreetingAndHangsUp(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{
			name:     "configured greeting",
			opts:     Options{Greeting: "hi from the config\n"},
			expected: "hi from the config\n",
		},
		{
			name:     "default greeting",
			opts:     Options{},
			expected: DefaultGreeting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, client := net.Pipe()
			defer client.Close()

			go func() {
				if err := Hello(context.Background(), server, tt.opts); err == nil {
					server.Close()
				}
			}()

			got, err := io.ReadAll(client)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestDiscardDrainsUntilHangup(t *testing.T) {
	server, client := net.Pipe()

	done := make(chan error, 1)
	go func() {
		done <- Discard(context.Background(), server, Options{})
	}()

	_, err := client.Write([]byte("swallowed"))
	require.NoError(t, err)
	client.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("discard session did not end on hangup")
	}
}

func TestUDPEchoRoundTrip(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	server := pc.(*net.UDPConn)

	done := make(chan error, 1)
	go func() {
		done <- UDPEcho(context.Background(), server, Options{})
	}()

	client, err := net.Dial("udp", server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("datagram"))
	require.NoError(t, err)
	buf := make([]byte, 16)
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "datagram", string(buf[:n]))

	// Closing the socket is how teardown reaches the handler.
	server.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("udp echo did not stop when its socket closed")
	}
}
