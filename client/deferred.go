package client

import (
	"sync"
)

// Ack is the empty success payload of write operations.
type Ack struct{}

// --------------------------------------------------------------------------
// Deferred Definition
// --------------------------------------------------------------------------

// Deferred is the handle an operation returns before it has run. The
// caller registers up to three reactions on it; the bridge resolves it
// exactly once from the notifier context.
//
// A Deferred is shared by identity between the caller and the bridge
// closures that resolve it. It must never be copied; it is only handed out
// as a pointer.
type Deferred[T any] struct {
	mu sync.Mutex

	// reaction slots, at most one callback each (last registration wins)
	successCallback  func(result T)
	failureCallback  func(err error)
	completeCallback func()

	// set by the first resolve call; later registrations never fire
	resolved bool
}

// newDeferred creates an unresolved Deferred.
func newDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{}
}

// --------------------------------------------------------------------------
// Reaction Registration
// --------------------------------------------------------------------------

// OnSuccess registers the callback to execute when the operation succeeds.
// It replaces a previously registered success callback and returns the
// Deferred for chaining. Registering after the Deferred has been resolved
// has no effect: the callback will never fire.
func (d *Deferred[T]) OnSuccess(callback func(result T)) *Deferred[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.resolved {
		d.successCallback = callback
	}
	return d
}

// OnFailure registers the callback to execute when the operation fails.
// Replacement and post-resolution semantics match OnSuccess.
func (d *Deferred[T]) OnFailure(callback func(err error)) *Deferred[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.resolved {
		d.failureCallback = callback
	}
	return d
}

// OnComplete registers the callback to execute when the operation is
// finished, whether successful or not. Replacement and post-resolution
// semantics match OnSuccess.
func (d *Deferred[T]) OnComplete(callback func()) *Deferred[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.resolved {
		d.completeCallback = callback
	}
	return d
}

// --------------------------------------------------------------------------
// Bridge-Side Resolution
// --------------------------------------------------------------------------

// requiresStatus reports whether anyone observes the outcome. Only a
// success or failure callback makes the outcome relevant; a completion
// callback alone does not, so the bridge can skip the status round trip.
func (d *Deferred[T]) requiresStatus() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.successCallback != nil || d.failureCallback != nil
}

// take marks the Deferred resolved and hands out the registered callbacks.
// The callbacks run outside the lock; nil is returned once resolved.
func (d *Deferred[T]) take() (func(T), func(error), func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resolved {
		return nil, nil, nil
	}
	d.resolved = true
	return d.successCallback, d.failureCallback, d.completeCallback
}

// resolveSuccess signals that the operation finished successfully.
// Completion is implied. Invoked at most once, by the bridge only.
func (d *Deferred[T]) resolveSuccess(result T) {
	success, _, complete := d.take()
	if success != nil {
		success(result)
	}
	if complete != nil {
		complete()
	}
}

// resolveFailure signals that the operation resulted in failure.
// Completion is implied. Invoked at most once, by the bridge only.
func (d *Deferred[T]) resolveFailure(err error) {
	_, failure, complete := d.take()
	if failure != nil {
		failure(err)
	}
	if complete != nil {
		complete()
	}
}

// resolveComplete signals that the operation finished without the outcome
// having been tracked (fire-and-forget of the status round trip).
func (d *Deferred[T]) resolveComplete() {
	_, _, complete := d.take()
	if complete != nil {
		complete()
	}
}
