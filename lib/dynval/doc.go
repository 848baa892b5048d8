// Package dynval provides the dynamic value type used at the public API
// boundary of the bridge. A Value is a tagged variant that can represent
// null, booleans, 32 bit integers, doubles, strings, ordered sequences and
// string-keyed mappings - independent of the wire representation of the
// underlying database driver.
//
// The package focuses on:
//   - A small, closed set of kinds so converters can match exhaustively
//   - Immutability: a Value is never mutated after construction
//   - Stable mapping iteration order (insertion order) within one conversion
//   - Semantic equality that ignores mapping key order but preserves
//     sequence order
//
// Key Components:
//
//   - Kind: the tag enumeration. The zero Kind is KindNull, so the zero
//     Value is a valid null value and no partial states exist.
//
//   - Value: the variant itself. Scalar accessors return the zero value of
//     their type when called on a Value of a different kind; the tag alone
//     determines which accessor is meaningful.
//
//   - Constructors (Null, Bool, Int, Double, String, Sequence, Mapping):
//     the only way to build non-zero Values. Composite constructors copy
//     their inputs so the resulting Value cannot be aliased and mutated.
//
// Thread Safety:
//
//	Values are immutable after construction and therefore safe to share
//	across goroutines without synchronization.
package dynval
