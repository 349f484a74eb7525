package executor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFirstWins(t *testing.T) {
	reset()
	t.Cleanup(reset)

	first := NewPool(0)
	second := NewSerial()

	assert.True(t, Register(first))
	assert.False(t, Register(second), "second registration must be a no-op")
	assert.Same(t, first, Active())
}

func TestActiveInstallsDefaultPool(t *testing.T) {
	reset()
	t.Cleanup(reset)

	exec := Active()
	require.NotNil(t, exec)
	assert.Same(t, exec, Active(), "the lazily installed default must stick")

	// A later explicit registration loses against the installed default.
	assert.False(t, Register(NewSerial()))
}

func TestPoolRunsTasksConcurrently(t *testing.T) {
	exec := NewPool(0)

	var wg sync.WaitGroup
	gate := make(chan struct{})
	wg.Add(2)
	// Two tasks that each need the other to finish would deadlock on a
	// serial executor; the pool runs them in parallel.
	exec.Spawn(func() {
		defer wg.Done()
		close(gate)
	})
	exec.Spawn(func() {
		defer wg.Done()
		<-gate
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool tasks did not run concurrently")
	}
	exec.Wait()
}

func TestPoolLimitBoundsConcurrency(t *testing.T) {
	exec := NewPool(2)

	var current, peak int64
	for i := 0; i < 6; i++ {
		exec.Spawn(func() {
			n := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&current, -1)
		})
	}
	exec.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestSerialPreservesSubmissionOrder(t *testing.T) {
	exec := NewSerial()

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		exec.Spawn(func() {
			order = append(order, i)
		})
	}
	exec.Wait()

	require.Len(t, order, 10)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestSerialRestartsAfterDrain(t *testing.T) {
	exec := NewSerial()

	ran := make(chan int, 2)
	exec.Spawn(func() { ran <- 1 })
	exec.Wait()
	exec.Spawn(func() { ran <- 2 })
	exec.Wait()

	assert.Equal(t, 1, <-ran)
	assert.Equal(t, 2, <-ran)
}

func TestCustomDelegatesSpawning(t *testing.T) {
	var spawned int64
	exec := NewCustom(func(fn func()) {
		atomic.AddInt64(&spawned, 1)
		go fn()
	})

	var ran int64
	for i := 0; i < 4; i++ {
		exec.Spawn(func() {
			atomic.AddInt64(&ran, 1)
		})
	}
	exec.Wait()

	assert.Equal(t, int64(4), atomic.LoadInt64(&spawned))
	assert.Equal(t, int64(4), atomic.LoadInt64(&ran))
}
