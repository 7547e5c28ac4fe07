package model

import (
	"sdicode-go/errcode"
	"sdicode-go/literal"
	"sdicode-go/scpi"
	"sdicode-go/x/mathx"
)

// Record is one packed instance of a Schema.
type Record struct {
	s   *Schema
	buf []byte
}

func (r *Record) Schema() *Schema { return r.s }

// Bytes returns a copy of the serialised record.
func (r *Record) Bytes() []byte { return append([]byte(nil), r.buf...) }

// Clone returns an independent copy.
func (r *Record) Clone() *Record { return &Record{s: r.s, buf: r.Bytes()} }

// Equal reports byte-wise equality of two records of the same schema.
func (r *Record) Equal(o *Record) bool {
	if r.s != o.s || len(r.buf) != len(o.buf) {
		return false
	}
	for i := range r.buf {
		if r.buf[i] != o.buf[i] {
			return false
		}
	}
	return true
}

func (r *Record) lookup(op, name string, ch int) (*Field, error) {
	f := r.s.byName[name]
	if f == nil || ch < 0 || ch >= f.Len() {
		return nil, &errcode.E{C: errcode.UnknownKeyword, Op: op, Msg: name}
	}
	return f, nil
}

// Get reads a value; ch is 0-based.
func (r *Record) Get(name string, ch int) (uint64, error) {
	f, err := r.lookup("get", name, ch)
	if err != nil {
		return 0, err
	}
	if !f.Stored() {
		return f.Derive(r, ch), nil
	}
	return r.get(f.span(ch)), nil
}

// Value is Get for callers that hold a known-good name and channel.
func (r *Record) Value(name string, ch int) uint64 {
	v, _ := r.Get(name, ch)
	return v
}

// Apply validates v against the field and writes it. On failure the record
// is unchanged. The returned Span is exactly the bytes that changed hands.
func (r *Record) Apply(name string, ch int, v uint64) (Span, error) {
	f, err := r.lookup("apply", name, ch)
	if err != nil {
		return Span{}, err
	}
	if f.ReadOnly {
		return Span{}, &errcode.E{C: errcode.ReadOnlyField, Op: "apply", Msg: name}
	}
	if err := f.validate(v); err != nil {
		return Span{}, &errcode.E{C: errcode.Of(err), Op: "apply", Msg: name}
	}
	sp := f.span(ch)
	r.put(sp, v)
	return sp, nil
}

// Set decodes text in the field's literal form and applies it.
func (r *Record) Set(name string, ch int, text string) (Span, error) {
	f, err := r.lookup("set", name, ch)
	if err != nil {
		return Span{}, err
	}
	if f.ReadOnly {
		return Span{}, &errcode.E{C: errcode.ReadOnlyField, Op: "set", Msg: name}
	}
	v, err := f.Parse(text)
	if err != nil {
		return Span{}, &errcode.E{C: errcode.Of(err), Op: "set", Msg: name}
	}
	return r.Apply(name, ch, v)
}

// Format renders a value in its wire form.
func (r *Record) Format(name string, ch int) (string, error) {
	v, err := r.Get(name, ch)
	if err != nil {
		return "", err
	}
	return r.s.byName[name].Format(v), nil
}

// Parse decodes text into a raw value without range checks beyond what the
// literal form itself imposes.
func (f *Field) Parse(text string) (uint64, error) {
	switch f.Kind {
	case Enum:
		for _, c := range f.Enum {
			if scpi.K(c.Name).Exact(text) {
				return c.Value, nil
			}
		}
		return 0, errcode.MalformedLiteral
	case Bool:
		return literal.ParseInt(text, true)
	case Micros:
		return literal.ParseMicros(text, f.AllowZero)
	case Hertz, Count, Port:
		return literal.ParseInt(text, f.AllowZero)
	case IPv4:
		ip, err := literal.ParseIPv4(text)
		return literal.PackIPv4(ip), err
	case MAC:
		mac, err := literal.ParseMAC(text)
		return literal.PackMAC(mac), err
	}
	return 0, errcode.MalformedLiteral
}

// Format renders v in the field's wire form.
func (f *Field) Format(v uint64) string {
	switch f.Kind {
	case Enum:
		if c, ok := f.choice(v); ok {
			return c.upper()
		}
	case Micros:
		return literal.FormatMicros(v)
	case IPv4:
		return literal.FormatIPv4(literal.UnpackIPv4(v))
	case MAC:
		return literal.FormatMAC(literal.UnpackMAC(v))
	}
	return literal.FormatUint(v)
}

func (f *Field) validate(v uint64) error {
	switch f.Kind {
	case Enum:
		if _, ok := f.choice(v); !ok {
			return errcode.OutOfRange
		}
		return nil
	case Bool:
		if v > 1 {
			return errcode.OutOfRange
		}
		return nil
	case IPv4, MAC:
		if v > f.Kind.limit() {
			return errcode.OutOfRange
		}
		return nil
	}
	if v == 0 && !f.AllowZero {
		return errcode.OutOfRange
	}
	lo := f.Min
	if v == 0 && f.AllowZero {
		lo = 0
	}
	if !mathx.Between(v, lo, f.max()) {
		return errcode.OutOfRange
	}
	return nil
}

func (r *Record) get(sp Span) uint64 {
	var v uint64
	for i := sp.Len - 1; i >= 0; i-- {
		v = v<<8 | uint64(r.buf[sp.Off+i])
	}
	return v
}

func (r *Record) put(sp Span, v uint64) {
	for i := 0; i < sp.Len; i++ {
		r.buf[sp.Off+i] = byte(v)
		v >>= 8
	}
}
