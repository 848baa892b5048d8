// Package reactor provides the serial execution contexts the dispatch
// bridge is built on: a queue that any goroutine may submit closures to,
// with the guarantee that all closures run one at a time, in submission
// order, on a single dedicated goroutine.
//
// Two such contexts exist per connection: the worker (runs the blocking
// driver calls) and the notifier (runs caller-visible callbacks). The
// bridge itself only depends on the small ISerialExecutor interface, so an
// application that already owns an event loop can submit notifier work to
// it directly.
//
// Features and Guarantees:
//
//   - Lock-free submission: atomic operations for low latency even under
//     contention, no lock is held while a task runs
//   - Unbounded: submission never blocks; if submission outruns execution
//     the queue grows, limited only by memory
//   - FIFO per producer: closures submitted from one goroutine run in
//     exactly the order they were submitted
//   - Panic isolation: a panicking task is logged and the queue keeps
//     running; panics never cross into other execution contexts
package reactor
