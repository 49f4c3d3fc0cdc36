package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/bsbctl/internal/protocol/registry"
)

// Value is the decoded form of a frame payload. The concrete variant is fully
// determined by the field descriptor's datatype; the payload bytes alone never
// disambiguate it. Values are immutable once constructed.
type Value interface {
	Datatype() registry.Datatype
	// Encode produces the payload bytes for this value.
	Encode() ([]byte, error)
	// String is the canonical display form; ParseValue reverses it.
	String() string
}

const dateTimeLayout = "2006-01-02T15:04:05"

// scheduleEndHour terminates an encoded schedule: one final range
// 24:00-24:00 with the last-valid marker on its start hour.
const scheduleEndHour = 24

// Setting is a per-field configuration value. The 16-bit integer is carried
// as-is; its interpretation (enum states, steps) is up to the consumer.
// Max is the field's upper bound from the registry, 0 when unchecked.
type Setting struct {
	Flag  uint8
	Value int16
	Max   int16
}

func (s Setting) Datatype() registry.Datatype { return registry.DatatypeSetting }

func (s Setting) Encode() ([]byte, error) {
	if s.Max > 0 && (s.Value < 0 || s.Value > s.Max) {
		return nil, ErrInvalidSetting
	}
	return appendInt16([]byte{s.Flag}, s.Value), nil
}

func (s Setting) String() string { return strconv.Itoa(int(s.Value)) }

// Number is a plain integer value, e.g. error codes or counters.
type Number struct {
	Flag  uint8
	Value int16
}

func (n Number) Datatype() registry.Datatype { return registry.DatatypeNumber }

func (n Number) Encode() ([]byte, error) {
	return appendInt16([]byte{n.Flag}, n.Value), nil
}

func (n Number) String() string { return strconv.Itoa(int(n.Value)) }

// Float is a fixed-point magnitude: the wire carries a signed 16-bit integer
// that is divided by the field's divisor (10, 50, 64, ...).
type Float struct {
	Flag    uint8
	Value   float64
	Divisor uint8
}

func (f Float) Datatype() registry.Datatype { return registry.DatatypeFloat }

// Encode scales by the divisor and rounds to the nearest integer, ties to
// even. Magnitudes that do not fit the signed 16-bit field fail.
func (f Float) Encode() ([]byte, error) {
	div := float64(f.Divisor)
	if f.Divisor == 0 {
		div = 1
	}
	scaled := math.RoundToEven(f.Value * div)
	if scaled > math.MaxInt16 || scaled < math.MinInt16 {
		return nil, ErrValueOutOfRange
	}
	return appendInt16([]byte{f.Flag}, int16(scaled)), nil
}

func (f Float) String() string { return strconv.FormatFloat(f.Value, 'f', -1, 64) }

// DateTime is a calendar date and time. The trailing wire byte has no known
// meaning and is preserved verbatim in Reserved; the weekday byte is
// re-derived from the date on encode rather than trusted from the wire.
type DateTime struct {
	Flag     uint8
	Time     time.Time
	Reserved uint8
}

func (d DateTime) Datatype() registry.Datatype { return registry.DatatypeDateTime }

func (d DateTime) Encode() ([]byte, error) {
	year := d.Time.Year() - 1900
	if year < 0 || year > 255 {
		return nil, ErrValueOutOfRange
	}
	weekday := int(d.Time.Weekday())
	if weekday == 0 {
		weekday = 7 // Mon=1 .. Sun=7
	}
	return []byte{
		d.Flag,
		uint8(year),
		uint8(d.Time.Month()),
		uint8(d.Time.Day()),
		uint8(weekday),
		uint8(d.Time.Hour()),
		uint8(d.Time.Minute()),
		uint8(d.Time.Second()),
		d.Reserved,
	}, nil
}

func (d DateTime) String() string { return d.Time.Format(dateTimeLayout) }

// TimeRange is one switching window of a schedule.
type TimeRange struct {
	StartHour   uint8
	StartMinute uint8
	EndHour     uint8
	EndMinute   uint8
}

func (r TimeRange) validate() error {
	if r.StartHour > scheduleEndHour || r.EndHour > scheduleEndHour ||
		r.StartMinute > 59 || r.EndMinute > 59 {
		return ErrInvalidSchedule
	}
	return nil
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.StartHour, r.StartMinute, r.EndHour, r.EndMinute)
}

// Schedule is up to three active switching windows. Only active ranges are
// kept; the wire terminator range is not part of Ranges.
type Schedule struct {
	Ranges []TimeRange
}

func (s Schedule) Datatype() registry.Datatype { return registry.DatatypeSchedule }

// Encode emits the active ranges followed by the canonical terminator range.
func (s Schedule) Encode() ([]byte, error) {
	buf := make([]byte, 0, (len(s.Ranges)+1)*4)
	for _, r := range s.Ranges {
		if err := r.validate(); err != nil {
			return nil, err
		}
		buf = append(buf, r.StartHour, r.StartMinute, r.EndHour, r.EndMinute)
	}
	buf = append(buf, scheduleEndHour|0x80, 0, scheduleEndHour, 0)
	return buf, nil
}

func (s Schedule) String() string {
	parts := make([]string, len(s.Ranges))
	for i, r := range s.Ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// Enum is a raw state value; mapping to symbolic names is out of scope.
type Enum struct {
	Flag  uint8
	Value uint8
}

func (e Enum) Datatype() registry.Datatype { return registry.DatatypeEnum }

func (e Enum) Encode() ([]byte, error) { return []byte{e.Flag, e.Value}, nil }

func (e Enum) String() string { return strconv.Itoa(int(e.Value)) }

// DecodeValue decodes payload bytes into the variant selected by the
// descriptor's datatype. The flag byte is carried through unmodified; its
// semantics beyond marking set operations are unconfirmed.
func DecodeValue(payload []byte, desc registry.Descriptor) (Value, error) {
	switch desc.Type {
	case registry.DatatypeSetting:
		if len(payload) < 3 {
			return nil, ErrPayloadTooShort
		}
		v := int16(binary.BigEndian.Uint16(payload[1:3]))
		if desc.Max > 0 && (v < 0 || v > desc.Max) {
			return nil, ErrInvalidSetting
		}
		return Setting{Flag: payload[0], Value: v, Max: desc.Max}, nil

	case registry.DatatypeNumber:
		if len(payload) < 3 {
			return nil, ErrPayloadTooShort
		}
		return Number{Flag: payload[0], Value: int16(binary.BigEndian.Uint16(payload[1:3]))}, nil

	case registry.DatatypeFloat:
		if len(payload) < 3 {
			return nil, ErrPayloadTooShort
		}
		div := desc.Divisor
		if div == 0 {
			div = 1
		}
		raw := int16(binary.BigEndian.Uint16(payload[1:3]))
		return Float{Flag: payload[0], Value: float64(raw) / float64(div), Divisor: div}, nil

	case registry.DatatypeDateTime:
		return decodeDateTime(payload)

	case registry.DatatypeSchedule:
		return decodeSchedule(payload)

	case registry.DatatypeEnum:
		if len(payload) < 2 {
			return nil, ErrPayloadTooShort
		}
		return Enum{Flag: payload[0], Value: payload[1]}, nil

	default:
		return nil, ErrUnknownField
	}
}

func decodeDateTime(payload []byte) (Value, error) {
	if len(payload) < 9 {
		return nil, ErrPayloadTooShort
	}
	year := 1900 + int(payload[1])
	month := int(payload[2])
	day := int(payload[3])
	// payload[4] is the weekday; not trusted, re-derived on encode.
	hour := int(payload[5])
	minute := int(payload[6])
	second := int(payload[7])

	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 59 {
		return nil, ErrInvalidDateTime
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		// time.Date normalizes impossible dates like Feb 30.
		return nil, ErrInvalidDateTime
	}
	return DateTime{Flag: payload[0], Time: t, Reserved: payload[8]}, nil
}

func decodeSchedule(payload []byte) (Value, error) {
	if len(payload)%4 != 0 {
		return nil, ErrInvalidSchedule
	}
	var ranges []TimeRange
	for i := 0; i+4 <= len(payload); i += 4 {
		if payload[i]&0x80 != 0 {
			// Last-valid marker: this range and everything after is ignored.
			break
		}
		r := TimeRange{
			StartHour:   payload[i] & 0x7F,
			StartMinute: payload[i+1],
			EndHour:     payload[i+2] & 0x7F,
			EndMinute:   payload[i+3],
		}
		if err := r.validate(); err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return Schedule{Ranges: ranges}, nil
}

// ParseValue is the reverse of Value.String for the descriptor's datatype.
func ParseValue(s string, desc registry.Descriptor) (Value, error) {
	s = strings.TrimSpace(s)
	switch desc.Type {
	case registry.DatatypeSetting:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("protocol: parse setting %q: %w", s, err)
		}
		if desc.Max > 0 && (n < 0 || n > int64(desc.Max)) {
			return nil, ErrInvalidSetting
		}
		return Setting{Value: int16(n), Max: desc.Max}, nil

	case registry.DatatypeNumber:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("protocol: parse number %q: %w", s, err)
		}
		return Number{Value: int16(n)}, nil

	case registry.DatatypeFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("protocol: parse float %q: %w", s, err)
		}
		div := desc.Divisor
		if div == 0 {
			div = 1
		}
		return Float{Value: v, Divisor: div}, nil

	case registry.DatatypeDateTime:
		t, err := time.Parse(dateTimeLayout, s)
		if err != nil {
			return nil, fmt.Errorf("protocol: parse datetime %q: %w", s, err)
		}
		return DateTime{Time: t}, nil

	case registry.DatatypeSchedule:
		return parseSchedule(s)

	case registry.DatatypeEnum:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("protocol: parse enum %q: %w", s, err)
		}
		return Enum{Value: uint8(n)}, nil

	default:
		return nil, ErrUnknownField
	}
}

// parseSchedule reads "<sh>:<sm>-<eh>:<em>[,...]".
func parseSchedule(s string) (Value, error) {
	var ranges []TimeRange
	for _, part := range strings.Split(s, ",") {
		startStr, endStr, ok := strings.Cut(part, "-")
		if !ok {
			return nil, ErrInvalidSchedule
		}
		sh, sm, err := parseClock(startStr)
		if err != nil {
			return nil, err
		}
		eh, em, err := parseClock(endStr)
		if err != nil {
			return nil, err
		}
		r := TimeRange{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}
		if err := r.validate(); err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return Schedule{Ranges: ranges}, nil
}

func parseClock(s string) (uint8, uint8, error) {
	hourStr, minuteStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, ErrInvalidSchedule
	}
	hour, err := strconv.ParseUint(hourStr, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("protocol: parse schedule hour %q: %w", hourStr, err)
	}
	minute, err := strconv.ParseUint(minuteStr, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("protocol: parse schedule minute %q: %w", minuteStr, err)
	}
	return uint8(hour), uint8(minute), nil
}

func appendInt16(b []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(b, uint16(v))
}
