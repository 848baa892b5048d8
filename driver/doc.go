// Package driver defines the boundary to the underlying synchronous database
// driver: the wire document representation and the blocking driver contract
// the bridge schedules its calls against.
//
// The package focuses on:
//   - Document: the driver's native composite representation, built once
//     through a builder and immutable afterwards
//   - IDriver / ICursor: the exact blocking surface the dispatch bridge
//     needs, nothing more
//   - Keeping the wire protocol itself out of this repository - a production
//     driver implements IDriver elsewhere, the in-memory engine in
//     driver/memory implements it here
//
// Key Components:
//
//   - DocumentBuilder: append key/value pairs in one pass, then Build(). A
//     built document cannot be modified; a builder cannot be reused.
//
//   - Element / ElementType: one field of a document. The type set is closed
//     and includes binary, which has no dynamic-value counterpart and is
//     dropped by the converter in lib/codec.
//
//   - IDriver: connect, liveness, the five operations and the last-error
//     fetch. Query may return a nil cursor with a nil error; the bridge
//     treats that as a dropped connection, distinct from a returned error.
//
// Thread Safety:
//
//	IDriver implementations are not required to be safe for concurrent use.
//	The bridge guarantees that all calls on one driver happen on a single
//	worker context, which is the concurrency discipline that makes locking
//	on the driver unnecessary.
package driver
