// Package model describes an instrument's configuration as a table of field
// descriptors and applies validated single-field updates to a packed record.
package model

import (
	"strings"

	"sdicode-go/x/strconvx"
)

// Kind selects a field's storage width, domain and text form.
type Kind uint8

const (
	Enum   Kind = iota + 1 // 1 byte, member of Field.Enum
	Bool                   // 1 byte, 0 or 1
	Micros                 // uint32, microseconds, typed as seconds
	Hertz                  // uint32
	Count                  // uint32
	Port                   // uint16
	IPv4                   // 4 octets
	MAC                    // 6 octets
)

var kindNames = [...]string{"", "enum", "bool", "micros", "hertz", "count", "port", "ipv4", "mac"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && k != 0 {
		return kindNames[k]
	}
	return "kind(" + strconvx.Itoa(int(k)) + ")"
}

// Size is the stored width in bytes.
func (k Kind) Size() int {
	switch k {
	case Enum, Bool:
		return 1
	case Port:
		return 2
	case Micros, Hertz, Count, IPv4:
		return 4
	case MAC:
		return 6
	}
	return 0
}

// limit is the largest value the storage width can hold.
func (k Kind) limit() uint64 {
	if k == Bool {
		return 1
	}
	return 1<<(8*uint(k.Size())) - 1
}

// Choice is one member of an enumerated field. Name uses mixed-case keyword
// notation ("RISing"); replies render it upper-case.
type Choice struct {
	Name  string
	Value uint64
}

// Field describes one setting. Channels is 0 for a scalar, N for an array
// addressed 1..N on the wire and 0..N-1 here.
type Field struct {
	Name      string
	Kind      Kind
	Channels  int
	Enum      []Choice
	Min       uint64
	Max       uint64 // 0 means the storage limit
	AllowZero bool

	// ReadOnly rejects writes with errcode.ReadOnlyField.
	ReadOnly bool
	// RebootGated fields persist immediately but only take effect after restart.
	RebootGated bool
	// Check makes a successful set reply with the check-pending template.
	Check bool

	Default func(ch int) uint64
	// Derive computes a non-stored, read-only value.
	Derive func(r *Record, ch int) uint64

	offset int
}

// Len is the number of addressable channels (1 for a scalar).
func (f *Field) Len() int {
	if f.Channels == 0 {
		return 1
	}
	return f.Channels
}

// Stored reports whether the field occupies bytes in the record.
func (f *Field) Stored() bool { return f.Derive == nil }

// Span is the byte range of a single field value inside a serialised record.
type Span struct {
	Off int
	Len int
}

func (f *Field) span(ch int) Span {
	n := f.Kind.Size()
	return Span{Off: f.offset + ch*n, Len: n}
}

func (f *Field) max() uint64 {
	if f.Max == 0 || f.Max > f.Kind.limit() {
		return f.Kind.limit()
	}
	return f.Max
}

func (f *Field) choice(v uint64) (Choice, bool) {
	for _, c := range f.Enum {
		if c.Value == v {
			return c, true
		}
	}
	return Choice{}, false
}

func (c Choice) upper() string { return strings.ToUpper(c.Name) }
