// Package protocol owns payload decoding and field-value composition.
//
// Ownership boundary:
// - datatype-dispatched payload codec (Value and its variants)
// - registry-backed composition of frames into named values (FieldValue)
// - canonical string forms for values and their reverse parsers
//
// The wire-level frame codec lives in the frame subpackage; the static field
// table lives in the registry subpackage. Everything here is a pure
// transformation over in-memory bytes: no I/O, no logging, no retries.
package protocol
