package reactor

// ISerialExecutor is the scheduling contract between the bridge and an
// execution context. Submit may be called from any goroutine; closures
// submitted to the same executor run strictly one at a time, in submission
// order. The bridge requires nothing more from the surrounding event loop.
type ISerialExecutor interface {
	// Submit schedules a closure for execution. It returns false if the
	// executor is shut down and the closure will never run.
	Submit(fn func()) bool
}
