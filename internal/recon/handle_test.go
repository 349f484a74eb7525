package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCloseWaitsForConfirmation(t *testing.T) {
	h := newHandle()

	closed := make(chan struct{})
	go func() {
		h.Close()
		close(closed)
	}()

	// The drop request must arrive, but Close must not return before the
	// instance confirms.
	select {
	case <-h.dropReq:
	case <-time.After(time.Second):
		t.Fatal("drop request never fired")
	}

	select {
	case <-closed:
		t.Fatal("Close returned before the teardown was confirmed")
	case <-time.After(20 * time.Millisecond):
	}

	close(h.confirm)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after confirmation")
	}
}

func TestHandleCloseIdempotent(t *testing.T) {
	h := newHandle()

	go func() {
		<-h.dropReq
		close(h.confirm)
	}()

	h.Close()

	// The handshake already happened; further calls return immediately.
	done := make(chan struct{})
	go func() {
		h.Close()
		h.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("repeated Close blocked")
	}
}

func TestHandleChannelsAreDistinct(t *testing.T) {
	a := newHandle()
	b := newHandle()

	require.NotNil(t, a.dropReq)
	require.NotNil(t, a.confirm)
	assert.NotEqual(t, a.dropReq, b.dropReq)
}
