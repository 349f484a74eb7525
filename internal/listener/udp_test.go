package listener

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func udpEcho(ctx context.Context, conn *net.UDPConn, app string) error {
	buf := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if _, err := conn.WriteToUDP(buf[:n], addr); err != nil {
			return err
		}
	}
}

func TestUDPRunnerServesAndStopsCleanly(t *testing.T) {
	base, err := BuildUDP(Address{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	defer base.Close()

	construct := UDPRunner[string]("test-udp", udpEcho)
	task := construct(base, "x")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- task(ctx) }()

	client, err := net.Dial("udp", base.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))

	// Cancellation closes the clone underneath the handler; the read
	// error that causes is not a failure.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("instance did not stop on cancellation")
	}
}

func TestUDPRunnerHandlerErrorPropagates(t *testing.T) {
	base, err := BuildUDP(Address{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	defer base.Close()

	boom := errors.New("handler gave up")
	construct := UDPRunner[string]("test-udp", func(ctx context.Context, conn *net.UDPConn, app string) error {
		return boom
	})
	task := construct(base, "x")

	err = task(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestUDPRunnerSiblingSurvivesTeardown(t *testing.T) {
	base, err := BuildUDP(Address{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	defer base.Close()

	construct := UDPRunner[string]("test-udp", udpEcho)

	ctxA, cancelA := context.WithCancel(context.Background())
	doneA := make(chan error, 1)
	go func() { doneA <- construct(base, "a")(ctxA) }()

	ctxB, cancelB := context.WithCancel(context.Background())
	doneB := make(chan error, 1)
	go func() { doneB <- construct(base, "b")(ctxB) }()
	defer func() {
		cancelB()
		<-doneB
	}()

	cancelA()
	select {
	case <-doneA:
	case <-time.After(2 * time.Second):
		t.Fatal("first instance did not stop")
	}

	client, err := net.Dial("udp", base.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("hi"))
	require.NoError(t, err)
	buf := make([]byte, 2)
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf[:n]))
}
