// Package serializer provides pluggable serialization of dynamic values for
// everything outside the driver boundary: CLI document input and output and
// the persistence of the in-memory engine. It is not involved in the wire
// conversion the bridge performs - that lives in lib/codec.
//
// The package focuses on:
//   - A consistent interface for different serialization formats
//   - Implementations backed by well established encodings (JSON, YAML,
//     CBOR) rather than a custom format
//   - A single shared translation between dynamic values and the native Go
//     values the encoders work with
//
// Key Components:
//
//   - IValueSerializer: core interface all implementations satisfy.
//
//   - jsonSerializerImpl: human readable, the default for CLI usage.
//
//   - yamlSerializerImpl: human writable, convenient for documents given on
//     the command line or in files.
//
//   - cborSerializerImpl: compact binary encoding, the recommended format
//     for persisting larger data sets.
//
// Numeric mapping: integers that fit the 32 bit wire width become integer
// values, everything else becomes a double. Native types without a dynamic
// counterpart (timestamps, raw bytes) are dropped silently inside
// composites, mirroring the lenient policy of the wire converter.
//
// Thread Safety:
//
//	All implementations are stateless and safe for concurrent use.
package serializer
