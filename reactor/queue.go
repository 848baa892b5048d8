package reactor

import (
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("reactor")

// Queue is a serial execution context: closures submitted from any
// goroutine run one at a time, in submission order, on one dedicated
// goroutine. It implements ISerialExecutor.
//
// The bridge creates one Queue per connection as the worker context; the
// notifier context is usually the caller's own Queue.
type Queue struct {
	name     string
	tasks    *taskQueue
	consumer sync.WaitGroup
}

// NewQueue creates a serial execution context and starts its goroutine.
// The name is only used for logging.
func NewQueue(name string) *Queue {
	q := &Queue{
		name:  name,
		tasks: newTaskQueue(),
	}

	q.consumer.Add(1)
	go q.consume()

	return q
}

// --------------------------------------------------------------------------
// Interface Methods (docu see reactor.ISerialExecutor)
// --------------------------------------------------------------------------

func (q *Queue) Submit(fn func()) bool {
	return q.tasks.push(fn)
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Close stops the queue. Already submitted closures still run; Close
// returns once the queue is drained and the goroutine has exited.
func (q *Queue) Close() {
	q.tasks.close()
	q.consumer.Wait()
}

// consume runs submitted closures until the queue is closed and drained
func (q *Queue) consume() {
	defer q.consumer.Done()

	for {
		fn := q.tasks.pop()
		if fn == nil {
			return
		}
		q.runTask(fn)
	}
}

// runTask isolates panics so one bad closure cannot take down the context
func (q *Queue) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("panic in task on %q context: %v", q.name, r)
		}
	}()
	fn()
}
