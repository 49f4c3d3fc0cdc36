// Package registry owns the static field definition table.
//
// The table maps a 4-byte field identifier to the descriptor that names the
// field and fixes the wire datatype of its payload. It is generated ahead of
// time from fields.csv by cmd/fieldgen and never mutated after process start,
// so lookups are safe for concurrent use without synchronization.
package registry

import "sort"

// Datatype is the wire encoding of a field's payload.
type Datatype uint8

const (
	DatatypeUnknown Datatype = iota
	DatatypeSetting
	DatatypeNumber
	DatatypeFloat
	DatatypeDateTime
	DatatypeSchedule
	DatatypeEnum
)

func (d Datatype) String() string {
	switch d {
	case DatatypeSetting:
		return "setting"
	case DatatypeNumber:
		return "number"
	case DatatypeFloat:
		return "float"
	case DatatypeDateTime:
		return "datetime"
	case DatatypeSchedule:
		return "schedule"
	case DatatypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Descriptor is one field definition.
type Descriptor struct {
	ID     uint32
	Name   string
	ProgNr int
	Type   Datatype
	// Divisor scales the stored integer for DatatypeFloat (10, 50, 64, ...).
	Divisor uint8
	// Max is the highest valid setting for DatatypeSetting; 0 means unchecked.
	Max  int16
	Path string
}

// Lookup returns the descriptor for a field identifier.
func Lookup(id uint32) (Descriptor, bool) {
	d, ok := fields[id]
	return d, ok
}

// LookupName returns the descriptor with the given display name.
func LookupName(name string) (Descriptor, bool) {
	for _, d := range fields {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Fields returns all known descriptors ordered by field identifier.
func Fields() []Descriptor {
	out := make([]Descriptor, 0, len(fields))
	for _, d := range fields {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
