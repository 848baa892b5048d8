package reactor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSubmissionOrder verifies the per-producer FIFO guarantee
func TestSubmissionOrder(t *testing.T) {
	q := NewQueue("test")
	defer q.Close()

	const n = 1000
	var mu sync.Mutex
	got := make([]int, 0, n)
	done := make(chan struct{})

	for i := 0; i < n; i++ {
		i := i
		ok := q.Submit(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == n-1 {
				close(done)
			}
		})
		require.True(t, ok)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queue did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, n)
	for i, v := range got {
		require.Equal(t, i, v, "closures ran out of order")
	}
}

// TestSerialExecution verifies that closures never run concurrently
func TestSerialExecution(t *testing.T) {
	q := NewQueue("test")
	defer q.Close()

	var running, maxRunning, total int32
	var wg sync.WaitGroup

	// submit from many goroutines at once
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				q.Submit(func() {
					cur := atomic.AddInt32(&running, 1)
					if cur > atomic.LoadInt32(&maxRunning) {
						atomic.StoreInt32(&maxRunning, cur)
					}
					atomic.AddInt32(&running, -1)
					atomic.AddInt32(&total, 1)
				})
			}
		}()
	}
	wg.Wait()
	q.Close()

	assert.EqualValues(t, 1600, atomic.LoadInt32(&total))
	assert.EqualValues(t, 1, atomic.LoadInt32(&maxRunning), "closures overlapped")
}

// TestCloseDrains verifies that Close runs already submitted closures
func TestCloseDrains(t *testing.T) {
	q := NewQueue("test")

	var count int32
	for i := 0; i < 100; i++ {
		q.Submit(func() { atomic.AddInt32(&count, 1) })
	}

	q.Close()
	assert.EqualValues(t, 100, atomic.LoadInt32(&count))

	// after Close, submissions are refused
	assert.False(t, q.Submit(func() {}))
}

// TestPanicIsolation verifies that a panicking closure does not stop the
// queue
func TestPanicIsolation(t *testing.T) {
	q := NewQueue("test")
	defer q.Close()

	done := make(chan struct{})
	q.Submit(func() { panic("boom") })
	q.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queue died after a panic")
	}
}

// TestNilSubmit verifies that nil closures are refused
func TestNilSubmit(t *testing.T) {
	q := NewQueue("test")
	defer q.Close()

	assert.False(t, q.Submit(nil))
}
