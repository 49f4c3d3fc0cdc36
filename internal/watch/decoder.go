// Package watch turns a raw byte stream into decoded field values. It owns
// buffering and resynchronization only; framing and payload decoding stay in
// the protocol packages. Callers hand it bytes from any source, typically a
// serial port reader or a capture file.
package watch

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/danmuck/bsbctl/internal/logging"
	"github.com/danmuck/bsbctl/internal/protocol"
	"github.com/danmuck/bsbctl/internal/protocol/frame"
)

// Event is one frame lifted off the stream. Err is set when the frame parsed
// but its payload could not be decoded (unknown field, malformed payload);
// Frame is valid either way.
type Event struct {
	Frame frame.Frame
	Value protocol.FieldValue
	Err   error
}

// Handler consumes events in stream order.
type Handler func(Event)

// maxBuffer bounds the resync buffer against a source that never produces a
// valid frame.
const maxBuffer = 4096

// Decoder accumulates stream bytes and extracts frames as they complete.
// Corrupt stretches are skipped one byte at a time until the parser
// resynchronizes on a start marker. A Decoder is not safe for concurrent use.
type Decoder struct {
	buf []byte
	log zerolog.Logger
}

func NewDecoder() *Decoder {
	return &Decoder{log: logging.Component("watch")}
}

// Feed appends p to the buffer and returns every event completed by it.
// Partial frames stay buffered for the next call.
func (d *Decoder) Feed(p []byte) []Event {
	if len(p) == 0 {
		return nil
	}
	d.buf = append(d.buf, p...)

	var events []Event
	for {
		f, rest, err := frame.Parse(d.buf)
		switch {
		case err == nil:
			d.buf = rest
			events = append(events, d.decode(f))

		case errors.Is(err, frame.ErrIncomplete):
			// rest keeps everything from the start marker on; a nil rest
			// means no marker was seen and the garbage can go.
			d.buf = compact(rest)
			return events

		default:
			// Bad length or checksum at this marker. Drop the marker byte
			// and hunt for the next one.
			d.log.Debug().Err(err).Int("buffered", len(rest)).Msg("resync")
			d.buf = compact(rest[1:])
		}
	}
}

// Pending reports how many bytes are buffered awaiting frame completion.
func (d *Decoder) Pending() int { return len(d.buf) }

func (d *Decoder) decode(f frame.Frame) Event {
	fv, err := protocol.DecodeFieldValue(f)
	if err != nil {
		d.log.Debug().Err(err).
			Uint32("field_id", f.FieldID).
			Stringer("type", f.Type).
			Msg("frame decoded, payload not understood")
		return Event{Frame: f, Err: err}
	}
	return Event{Frame: f, Value: fv}
}

// compact re-homes the tail of the feed buffer so the slice never pins a
// large backing array, and truncates hopeless garbage.
func compact(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	if len(b) > maxBuffer {
		b = b[len(b)-maxBuffer:]
	}
	return append([]byte(nil), b...)
}

// Follow reads r until EOF or context cancellation, delivering each event to
// fn in order. A read error other than EOF is returned as-is.
func Follow(ctx context.Context, r io.Reader, fn Handler) error {
	d := NewDecoder()
	chunk := make([]byte, 512)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(chunk)
		for _, ev := range d.Feed(chunk[:n]) {
			fn(ev)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
