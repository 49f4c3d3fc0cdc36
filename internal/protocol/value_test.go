package protocol

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/danmuck/bsbctl/internal/protocol/registry"
)

func descFor(t registry.Datatype, divisor uint8, max int16) registry.Descriptor {
	return registry.Descriptor{ID: 1, Name: "test", Type: t, Divisor: divisor, Max: max}
}

// Golden decode/encode/display cases for every datatype variant.
func valueCases() []struct {
	name    string
	desc    registry.Descriptor
	payload []byte
	value   Value
	display string
} {
	return []struct {
		name    string
		desc    registry.Descriptor
		payload []byte
		value   Value
		display string
	}{
		{
			name:    "setting",
			desc:    descFor(registry.DatatypeSetting, 0, 2),
			payload: []byte{0, 0, 1},
			value:   Setting{Flag: 0, Value: 1, Max: 2},
			display: "1",
		},
		{
			name:    "number",
			desc:    descFor(registry.DatatypeNumber, 0, 0),
			payload: []byte{0, 0, 15},
			value:   Number{Flag: 0, Value: 15},
			display: "15",
		},
		{
			name:    "float divisor 10",
			desc:    descFor(registry.DatatypeFloat, 10, 0),
			payload: []byte{0, 0, 15},
			value:   Float{Flag: 0, Value: 1.5, Divisor: 10},
			display: "1.5",
		},
		{
			name:    "float divisor 50",
			desc:    descFor(registry.DatatypeFloat, 50, 0),
			payload: []byte{0, 0, 35},
			value:   Float{Flag: 0, Value: 0.7, Divisor: 50},
			display: "0.7",
		},
		{
			name:    "float divisor 64",
			desc:    descFor(registry.DatatypeFloat, 64, 0),
			payload: []byte{0, 5, 192},
			value:   Float{Flag: 0, Value: 23, Divisor: 64},
			display: "23",
		},
		{
			name:    "datetime",
			desc:    descFor(registry.DatatypeDateTime, 0, 0),
			payload: []byte{0, 124, 11, 11, 1, 9, 36, 57, 0},
			value: DateTime{
				Flag: 0,
				Time: time.Date(2024, time.November, 11, 9, 36, 57, 0, time.UTC),
			},
			display: "2024-11-11T09:36:57",
		},
		{
			name:    "schedule",
			desc:    descFor(registry.DatatypeSchedule, 0, 0),
			payload: []byte{6, 50, 7, 10, 18, 30, 18, 50, 24 | 0x80, 0, 24, 0},
			value: Schedule{Ranges: []TimeRange{
				{6, 50, 7, 10},
				{18, 30, 18, 50},
			}},
			display: "6:50-7:10,18:30-18:50",
		},
		{
			name:    "enum",
			desc:    descFor(registry.DatatypeEnum, 0, 0),
			payload: []byte{0, 1},
			value:   Enum{Flag: 0, Value: 1},
			display: "1",
		},
	}
}

func TestDecodeValue(t *testing.T) {
	for _, c := range valueCases() {
		got, err := DecodeValue(c.payload, c.desc)
		if err != nil {
			t.Fatalf("%s: decode: %v", c.name, err)
		}
		if !reflect.DeepEqual(got, c.value) {
			t.Fatalf("%s: got %+v want %+v", c.name, got, c.value)
		}
	}
}

func TestEncodeValue(t *testing.T) {
	for _, c := range valueCases() {
		got, err := c.value.Encode()
		if err != nil {
			t.Fatalf("%s: encode: %v", c.name, err)
		}
		if !bytes.Equal(got, c.payload) {
			t.Fatalf("%s: got % X want % X", c.name, got, c.payload)
		}
	}
}

func TestValueDecodeEncodeRoundTrip(t *testing.T) {
	for _, c := range valueCases() {
		decoded, err := DecodeValue(c.payload, c.desc)
		if err != nil {
			t.Fatalf("%s: decode: %v", c.name, err)
		}
		encoded, err := decoded.Encode()
		if err != nil {
			t.Fatalf("%s: encode: %v", c.name, err)
		}
		if !bytes.Equal(encoded, c.payload) {
			t.Fatalf("%s: round-trip mismatch: got % X want % X", c.name, encoded, c.payload)
		}
	}
}

func TestValueDisplayRoundTrip(t *testing.T) {
	for _, c := range valueCases() {
		if got := c.value.String(); got != c.display {
			t.Fatalf("%s: got %q want %q", c.name, got, c.display)
		}
		parsed, err := ParseValue(c.display, c.desc)
		if err != nil {
			t.Fatalf("%s: parse: %v", c.name, err)
		}
		if got := parsed.String(); got != c.display {
			t.Fatalf("%s: parse/format mismatch: got %q want %q", c.name, got, c.display)
		}
	}
}

func TestDecodeValueErrors(t *testing.T) {
	cases := []struct {
		name    string
		desc    registry.Descriptor
		payload []byte
		want    error
	}{
		{"setting short", descFor(registry.DatatypeSetting, 0, 2), []byte{0, 1}, ErrPayloadTooShort},
		{"setting above max", descFor(registry.DatatypeSetting, 0, 2), []byte{0, 0, 3}, ErrInvalidSetting},
		{"number short", descFor(registry.DatatypeNumber, 0, 0), []byte{0, 0}, ErrPayloadTooShort},
		{"float short", descFor(registry.DatatypeFloat, 10, 0), []byte{0, 0}, ErrPayloadTooShort},
		{"enum short", descFor(registry.DatatypeEnum, 0, 0), []byte{0}, ErrPayloadTooShort},
		{"datetime short", descFor(registry.DatatypeDateTime, 0, 0), []byte{0, 124, 11, 11, 1, 9, 36, 57}, ErrPayloadTooShort},
		{"datetime bad hour", descFor(registry.DatatypeDateTime, 0, 0), []byte{0, 124, 11, 11, 1, 25, 36, 57, 0}, ErrInvalidDateTime},
		{"datetime bad minute", descFor(registry.DatatypeDateTime, 0, 0), []byte{0, 125, 7, 5, 3, 29, 0x19, 0xF0, 0}, ErrInvalidDateTime},
		{"datetime feb 30", descFor(registry.DatatypeDateTime, 0, 0), []byte{0, 124, 2, 30, 1, 9, 36, 57, 0}, ErrInvalidDateTime},
		{"datetime bad month", descFor(registry.DatatypeDateTime, 0, 0), []byte{0, 124, 13, 1, 1, 9, 36, 57, 0}, ErrInvalidDateTime},
		{"schedule ragged", descFor(registry.DatatypeSchedule, 0, 0), []byte{6, 50, 7, 10, 18, 30, 18}, ErrInvalidSchedule},
		{"schedule bad minute", descFor(registry.DatatypeSchedule, 0, 0), []byte{6, 50, 7, 10, 18, 30, 18, 60, 24 | 0x80, 0, 24, 0}, ErrInvalidSchedule},
		{"unknown datatype", descFor(registry.DatatypeUnknown, 0, 0), []byte{0, 0, 1}, ErrUnknownField},
	}
	for _, c := range cases {
		if _, err := DecodeValue(c.payload, c.desc); !errors.Is(err, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
}

func TestScheduleMarkerTruncation(t *testing.T) {
	// Marker on the second range: only the first is active.
	v, err := DecodeValue([]byte{8, 0, 12, 0, 0x80 | 13, 0, 18, 0}, descFor(registry.DatatypeSchedule, 0, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s := v.(Schedule)
	if len(s.Ranges) != 1 {
		t.Fatalf("expected 1 active range, got %d", len(s.Ranges))
	}
	if s.Ranges[0] != (TimeRange{8, 0, 12, 0}) {
		t.Fatalf("unexpected range %+v", s.Ranges[0])
	}

	// Marker on the first range: no active ranges at all.
	v, err = DecodeValue([]byte{0x80 | 8, 0, 12, 0}, descFor(registry.DatatypeSchedule, 0, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s := v.(Schedule); len(s.Ranges) != 0 {
		t.Fatalf("expected no active ranges, got %d", len(s.Ranges))
	}

	// A second marker after the first is irrelevant: the first wins.
	v, err = DecodeValue([]byte{8, 0, 12, 0, 0x80 | 13, 0, 18, 0, 0x80 | 19, 0, 20, 0}, descFor(registry.DatatypeSchedule, 0, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s := v.(Schedule); len(s.Ranges) != 1 {
		t.Fatalf("expected 1 active range, got %d", len(s.Ranges))
	}
}

func TestFloatEncodeRounding(t *testing.T) {
	// Exact multiple of 1/divisor round-trips exactly.
	enc, err := Float{Value: 1.5, Divisor: 10}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v, err := DecodeValue(enc, descFor(registry.DatatypeFloat, 10, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f := v.(Float); f.Value != 1.5 {
		t.Fatalf("expected 1.5, got %v", f.Value)
	}

	// 1.53 is not representable with divisor 10: nearest value wins.
	enc, err = Float{Value: 1.53, Divisor: 10}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v, err = DecodeValue(enc, descFor(registry.DatatypeFloat, 10, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f := v.(Float); f.Value != 1.5 {
		t.Fatalf("expected 1.5, got %v", f.Value)
	}

	// Ties round to even: 1.55*10 = 15.5 -> 16, 1.45*10 = 14.5 -> 14.
	enc, _ = Float{Value: 1.55, Divisor: 10}.Encode()
	if got := int16(enc[1])<<8 | int16(enc[2]); got != 16 {
		t.Fatalf("expected 16, got %d", got)
	}
	enc, _ = Float{Value: 1.45, Divisor: 10}.Encode()
	if got := int16(enc[1])<<8 | int16(enc[2]); got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
}

func TestEncodeValueOutOfRange(t *testing.T) {
	if _, err := (Float{Value: 4000, Divisor: 10}).Encode(); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	if _, err := (Float{Value: -4000, Divisor: 10}).Encode(); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	if _, err := (Setting{Value: 3, Max: 2}).Encode(); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	if _, err := (DateTime{Time: time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)}).Encode(); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	if _, err := (Schedule{Ranges: []TimeRange{{25, 0, 12, 0}}}).Encode(); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestDecodePreservesFlagAndReserved(t *testing.T) {
	v, err := DecodeValue([]byte{0x17, 0, 15}, descFor(registry.DatatypeFloat, 10, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	enc, err := v.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc[0] != 0x17 {
		t.Fatalf("expected flag 0x17 carried through, got 0x%02X", enc[0])
	}

	// The trailing datetime byte has no known meaning: verbatim round-trip.
	v, err = DecodeValue([]byte{1, 124, 11, 11, 1, 9, 36, 57, 0x42}, descFor(registry.DatatypeDateTime, 0, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	enc, err = v.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc[0] != 1 || enc[8] != 0x42 {
		t.Fatalf("expected flag/reserved preserved, got % X", enc)
	}
}

func TestParseValueErrors(t *testing.T) {
	if _, err := ParseValue("3", descFor(registry.DatatypeSetting, 0, 2)); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	if _, err := ParseValue("6:50-7:10,18:30-18:60", descFor(registry.DatatypeSchedule, 0, 0)); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
	if _, err := ParseValue("6:50-7:10,18:3018:50", descFor(registry.DatatypeSchedule, 0, 0)); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
	if _, err := ParseValue("not-a-number", descFor(registry.DatatypeFloat, 10, 0)); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseValue("not-a-date", descFor(registry.DatatypeDateTime, 0, 0)); err == nil {
		t.Fatalf("expected error")
	}
}
