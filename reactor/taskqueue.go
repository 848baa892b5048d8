package reactor

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// taskNode is a single element in the task queue
type taskNode struct {
	run  func()
	next atomic.Pointer[taskNode]
}

// taskQueue is a lock-free multi-producer single-consumer queue of
// closures. Implementation uses a linked list of nodes with atomic
// operations for concurrent push operations without locks. The single
// consumer is the executor goroutine in queue.go.
type taskQueue struct {
	head   atomic.Pointer[taskNode]
	tail   atomic.Pointer[taskNode]
	closed atomic.Bool

	// Condition variable for efficient consumer waiting
	mu   sync.Mutex
	cond *sync.Cond
}

// newTaskQueue creates a new empty task queue
func newTaskQueue() *taskQueue {
	// Create a sentinel node (dummy node at the beginning)
	sentinel := &taskNode{}

	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)

	// Set the initial head and tail to the sentinel node
	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	return q
}

// push adds a closure to the queue.
// Returns true if it was added, or false if the queue is closed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
// Pushes from one goroutine keep their relative order.
func (q *taskQueue) push(fn func()) bool {
	if fn == nil {
		return false
	}

	if q.closed.Load() {
		return false
	}

	newNode := &taskNode{run: fn}

	var backoff uint8 = 0

	for {
		tailNode := q.tail.Load()

		// try to atomically append our node to the current tail
		next := tailNode.next.Load()
		if next == nil {
			// the tail has no next node yet, try to append our node
			if tailNode.next.CompareAndSwap(nil, newNode) {
				/*
				 Successfully appended, now try to update tail
				 Note: CAS may fail if another producer helps update tail,
				 but that's okay - tail will still be updated eventually
				*/
				q.tail.CompareAndSwap(tailNode, newNode)

				// Signal the consumer that new work is available. The
				// lock pairs with the consumer's check-then-wait so the
				// signal cannot fall between its check and its Wait.
				q.mu.Lock()
				q.cond.Signal()
				q.mu.Unlock()

				return true
			}
		} else {
			// help update the tail pointer if another producer has already
			// appended a node but hasn't updated the tail yet
			q.tail.CompareAndSwap(tailNode, next)
		}

		/*
		 Exponential backoff to handle contention:
		  - At low contention (<10 retries): CPU spinning avoids thread
		    scheduling overhead
		  - At higher contention: yield the processor so other goroutines
		    make progress
		*/
		if backoff < 10 {
			backoff++
			for i := 0; i < 1<<backoff; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// pop removes and returns the next closure. It blocks until a closure is
// available or the queue is closed and drained, in which case it returns
// nil.
//
// Thread-safety: pop must only be called by the single consumer goroutine.
func (q *taskQueue) pop() func() {
	for {
		head := q.head.Load()
		next := head.next.Load()

		if next != nil {
			// Capture the closure before updating pointers
			fn := next.run

			// move head pointer (frees the old node)
			q.head.Store(next)

			// help go gc
			next.run = nil

			return fn
		}

		// Exit if closed and drained
		if q.closed.Load() {
			return nil
		}

		// Wait for a signal
		q.mu.Lock()
		// Double-check condition after acquiring the lock
		head = q.head.Load()
		if head.next.Load() == nil && !q.closed.Load() {
			q.cond.Wait()
		}
		q.mu.Unlock()
	}
}

// close closes the queue, preventing further pushes.
// Closures already in the queue will still be delivered to the consumer.
func (q *taskQueue) close() {
	q.closed.Store(true)

	// Wake up the consumer if it's waiting (see push for the locking)
	q.mu.Lock()
	q.cond.Signal()
	q.mu.Unlock()
}
