package protocol

import (
	"strings"

	"github.com/danmuck/bsbctl/internal/protocol/frame"
	"github.com/danmuck/bsbctl/internal/protocol/registry"
)

// FieldValue pairs a field identifier with its decoded payload value. By
// construction the field is always present in the registry.
type FieldValue struct {
	FieldID uint32
	Name    string
	Value   Value
}

// NewFieldValue wraps a value for a known field. The value's datatype must
// match the registry descriptor.
func NewFieldValue(fieldID uint32, v Value) (FieldValue, error) {
	desc, ok := registry.Lookup(fieldID)
	if !ok {
		return FieldValue{}, ErrUnknownField
	}
	if v.Datatype() != desc.Type {
		return FieldValue{}, ErrDatatypeMismatch
	}
	return FieldValue{FieldID: fieldID, Name: desc.Name, Value: v}, nil
}

// DecodeFieldValue resolves the frame's field id in the registry and decodes
// its payload. Unknown field ids fail; the payload type is never guessed.
func DecodeFieldValue(f frame.Frame) (FieldValue, error) {
	desc, ok := registry.Lookup(f.FieldID)
	if !ok {
		return FieldValue{}, ErrUnknownField
	}
	v, err := DecodeValue(f.Payload, desc)
	if err != nil {
		return FieldValue{}, err
	}
	return FieldValue{FieldID: f.FieldID, Name: desc.Name, Value: v}, nil
}

// Descriptor returns the registry entry for this field.
func (fv FieldValue) Descriptor() registry.Descriptor {
	desc, _ := registry.Lookup(fv.FieldID)
	return desc
}

// Path returns the field's hierarchical path, e.g. for topic names.
func (fv FieldValue) Path() string { return fv.Descriptor().Path }

// Encode produces the payload bytes for this value.
func (fv FieldValue) Encode() ([]byte, error) { return fv.Value.Encode() }

// Frame re-encodes the value into a frame. Addressing and packet type are not
// derivable from a FieldValue, so the caller supplies them.
func (fv FieldValue) Frame(dst, src uint8, pt frame.PacketType) (frame.Frame, error) {
	payload, err := fv.Value.Encode()
	if err != nil {
		return frame.Frame{}, err
	}
	return frame.Frame{Dest: dst, Source: src, Type: pt, FieldID: fv.FieldID, Payload: payload}, nil
}

// String renders "<name>: <value>", e.g. "water_pressure: 1.5".
func (fv FieldValue) String() string { return fv.Name + ": " + fv.Value.String() }

// ParseFieldValue reverses FieldValue.String.
func ParseFieldValue(s string) (FieldValue, error) {
	name, valueStr, ok := strings.Cut(s, ":")
	if !ok {
		return FieldValue{}, ErrInvalidFieldValue
	}
	desc, ok := registry.LookupName(strings.TrimSpace(name))
	if !ok {
		return FieldValue{}, ErrUnknownField
	}
	v, err := ParseValue(valueStr, desc)
	if err != nil {
		return FieldValue{}, err
	}
	return FieldValue{FieldID: desc.ID, Name: desc.Name, Value: v}, nil
}
