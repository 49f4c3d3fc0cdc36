// Package frame owns the wire-level codec for bus frames.
//
// Wire layout:
//
//	[0xDC][src^0x80:1][dst:1][len:1][type:1][field_id:4 BE][payload: len-11][crc:2 BE]
//
// len counts every byte of the frame including the start marker and the CRC.
// The CRC covers the start marker through the end of the payload. For Set and
// Get frames the top two field-id bytes are swapped on the wire; Parse and
// Serialize undo/apply the swap so FieldID always holds the canonical id.
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// StartByte marks the beginning of every frame on the bus.
const StartByte uint8 = 0xDC

const (
	// MinFrameLen is a frame with an empty payload:
	// start + src + dst + len + type + field id + crc.
	MinFrameLen = 1 + 1 + 1 + 1 + 1 + 4 + 2
	// MaxFrameLen is a protection limit against absurd length bytes.
	MaxFrameLen = 70

	headerLen   = 9 // start marker through field id
	checksumLen = 2
)

var (
	ErrInvalidStartByte = errors.New("frame: invalid start byte")
	ErrIncomplete       = errors.New("frame: incomplete, need more bytes")
	ErrInvalidLength    = errors.New("frame: invalid length byte")
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")
)

// PacketType classifies a frame.
type PacketType uint8

const (
	TypeInfo  PacketType = 2
	TypeSet   PacketType = 3
	TypeAck   PacketType = 4
	TypeNack  PacketType = 5
	TypeGet   PacketType = 6
	TypeRet   PacketType = 7
	TypeError PacketType = 8
)

func (t PacketType) String() string {
	switch t {
	case TypeInfo:
		return "info"
	case TypeSet:
		return "set"
	case TypeAck:
		return "ack"
	case TypeNack:
		return "nack"
	case TypeGet:
		return "get"
	case TypeRet:
		return "ret"
	case TypeError:
		return "error"
	default:
		return "unknown"
	}
}

// Frame is one complete bus message. Frames compare by value; Payload is nil
// when the frame carries no payload bytes.
type Frame struct {
	Dest    uint8
	Source  uint8
	Type    PacketType
	FieldID uint32
	Payload []byte
}

// NewGet builds a Get frame for a field; Get frames carry no payload.
func NewGet(dst, src uint8, fieldID uint32) Frame {
	return Frame{Dest: dst, Source: src, Type: TypeGet, FieldID: fieldID}
}

// NewSet builds a Set frame carrying an encoded payload.
func NewSet(dst, src uint8, fieldID uint32, payload []byte) Frame {
	return Frame{Dest: dst, Source: src, Type: TypeSet, FieldID: fieldID, Payload: payload}
}

// Parse decodes the first frame in input, skipping any garbage before the
// start marker. It returns the frame and the unconsumed remainder of input,
// so callers can parse a stream by re-invoking on the returned rest.
// ErrIncomplete means input may still become a frame once more bytes arrive;
// every other error is terminal for this input.
func Parse(input []byte) (Frame, []byte, error) {
	start := bytes.IndexByte(input, StartByte)
	if start < 0 {
		return Frame{}, nil, ErrIncomplete
	}
	return parseFrom(input[start:])
}

// ParseStrict decodes a frame that must begin at input[0]. A first byte other
// than the start marker fails with ErrInvalidStartByte.
func ParseStrict(input []byte) (Frame, []byte, error) {
	if len(input) == 0 {
		return Frame{}, nil, ErrIncomplete
	}
	if input[0] != StartByte {
		return Frame{}, input, ErrInvalidStartByte
	}
	return parseFrom(input)
}

func parseFrom(b []byte) (Frame, []byte, error) {
	if len(b) < 4 {
		return Frame{}, b, ErrIncomplete
	}
	total := int(b[3])
	if total < MinFrameLen || total >= MaxFrameLen {
		return Frame{}, b, ErrInvalidLength
	}
	if len(b) < total {
		return Frame{}, b, ErrIncomplete
	}

	want := Checksum(b[:total-checksumLen])
	got := binary.BigEndian.Uint16(b[total-checksumLen : total])
	if got != want {
		return Frame{}, b, ErrChecksumMismatch
	}

	pt := PacketType(b[4])
	fieldID := binary.BigEndian.Uint32(b[5:9])
	if pt == TypeSet || pt == TypeGet {
		fieldID = swapFieldID(fieldID)
	}

	var payload []byte
	if total > MinFrameLen {
		payload = append([]byte(nil), b[headerLen:total-checksumLen]...)
	}

	f := Frame{
		Dest:    b[2],
		Source:  b[1] ^ 0x80,
		Type:    pt,
		FieldID: fieldID,
		Payload: payload,
	}
	return f, b[total:], nil
}

// Serialize emits the frame's wire form including start marker and CRC.
func (f Frame) Serialize() []byte {
	total := MinFrameLen + len(f.Payload)
	buf := make([]byte, 0, total)
	buf = append(buf, StartByte, f.Source^0x80, f.Dest, uint8(total), uint8(f.Type))

	id := f.FieldID
	if f.Type == TypeSet || f.Type == TypeGet {
		id = swapFieldID(id)
	}
	buf = binary.BigEndian.AppendUint32(buf, id)
	buf = append(buf, f.Payload...)
	buf = binary.BigEndian.AppendUint16(buf, Checksum(buf))
	return buf
}

// swapFieldID exchanges the top two bytes of a field id. Set and Get frames
// carry the id in this swapped form on the wire; the swap is its own inverse.
func swapFieldID(id uint32) uint32 {
	return (id & 0x0000_FFFF) | ((id >> 8) & 0x00FF_0000) | ((id << 8) & 0xFF00_0000)
}
