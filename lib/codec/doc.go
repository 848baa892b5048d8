// Package codec converts between the dynamic value representation
// (lib/dynval) and the driver's wire document representation (driver).
//
// Both directions are recursive over the composite kinds. The supported
// type set is small and closed, so the conversion is an exhaustive switch
// over the tag - no type registry is involved.
//
// Policy decisions, kept from the legacy converter unless noted:
//
//   - Encode requires a composite root (documents and commands are always
//     composite). A scalar or null root is a returned error; this upgrades
//     the legacy silently-empty-document behavior to a reported one.
//   - Nested values the target representation cannot express are dropped
//     silently in both directions (on decode this concerns binary fields).
//   - On decode, a document whose keys are the contiguous, zero-based
//     integers "0", "1", ... becomes a sequence, anything else a mapping.
//     The check is vacuously true for an empty document, so an empty wire
//     document decodes to an empty sequence. This heuristic is the only
//     shape information available and is preserved exactly.
//   - No numeric coercion happens beyond the 32 bit integer and 64 bit
//     float wire widths; floats are never rounded.
package codec
