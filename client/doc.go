// Package client implements the asynchronous bridge over a synchronous
// database driver: a Connection that accepts operations without ever
// blocking the caller, and the Deferred handle callers register their
// reactions on.
//
// The package focuses on:
//   - A per-connection worker context that runs every blocking driver call,
//     strictly serialized, so the driver handle needs no locking
//   - A notifier context (the caller's own execution context) that delivers
//     all outcomes, so caller code never runs on the worker
//   - Converting every driver failure into a Deferred failure at the worker
//     boundary - no panic or error ever crosses contexts raw
//
// Key Components:
//
//   - Deferred: a one-shot reaction holder with success, failure and
//     completion slots. Resolved exactly once by the bridge; reactions
//     registered after resolution never fire.
//
//   - Connection: exposes Query, Insert, Update, Remove and RunCommand,
//     each funneled through one canonical scheduling helper, plus the
//     NoReply fire-and-forget write variants that trade observability for
//     skipping the status round trip.
//
// Ordering:
//
//	Operations submitted on one connection start on the worker in
//	submission order (FIFO). Their notifications may still arrive out of
//	order relative to wall-clock completion; callers that need ordering
//	chain via OnComplete.
//
// Registering reactions:
//
//	Resolutions run on the notifier context, and a reaction registered
//	after resolution never fires. Chaining reactions directly onto the
//	returned Deferred (conn.Query(...).OnSuccess(...)) is therefore only
//	race free when the registering code itself runs on the notifier
//	context: the resolution is then queued behind the current closure and
//	cannot overtake the registrations. Code submitting operations from a
//	foreign goroutine must not expect late registrations to be delivered.
//
// There is no cancellation and there are no timeouts at this layer: a
// submitted operation always runs to completion or driver failure.
package client
