package model

import (
	"errors"
	"hash/fnv"

	"sdicode-go/errcode"
	"sdicode-go/x/strconvx"
)

var (
	ErrDuplicateField = errors.New("model: duplicate field name")
	ErrBadField       = errors.New("model: invalid field descriptor")
	ErrBadDefault     = errors.New("model: default value outside field domain")
)

// Rule is a derived, per-channel validity predicate. It never rejects writes.
type Rule func(r *Record, ch int) bool

// Schema is an ordered field table with sequential, unpadded offsets.
type Schema struct {
	name   string
	fields []*Field
	byName map[string]*Field
	size   int
	rule   Rule
	sig    uint32
}

// NewSchema lays out fields in order and checks every default against its
// field's domain.
func NewSchema(name string, rule Rule, fields ...Field) (*Schema, error) {
	s := &Schema{name: name, rule: rule, byName: make(map[string]*Field, len(fields))}
	h := fnv.New32a()
	for i := range fields {
		f := fields[i]
		if f.Name == "" || f.Kind.Size() == 0 || f.Channels < 0 {
			return nil, &errcode.E{C: errcode.Error, Op: "schema", Msg: f.Name, Err: ErrBadField}
		}
		if f.Kind == Enum && len(f.Enum) == 0 {
			return nil, &errcode.E{C: errcode.Error, Op: "schema", Msg: f.Name, Err: ErrBadField}
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, &errcode.E{C: errcode.Error, Op: "schema", Msg: f.Name, Err: ErrDuplicateField}
		}
		if f.Stored() {
			f.offset = s.size
			s.size += f.Kind.Size() * f.Len()
			h.Write([]byte(f.Name))
			h.Write([]byte{byte(f.Kind), byte(f.Len())})
		} else {
			f.ReadOnly = true
		}
		fp := &f
		s.fields = append(s.fields, fp)
		s.byName[f.Name] = fp
	}
	s.sig = h.Sum32()

	// Defaults must decode cleanly, or boot would loop on regeneration.
	for _, f := range s.fields {
		if !f.Stored() {
			continue
		}
		for ch := 0; ch < f.Len(); ch++ {
			if err := f.validate(f.defaultAt(ch)); err != nil {
				return nil, &errcode.E{C: errcode.Error, Op: "schema", Msg: f.Name, Err: ErrBadDefault}
			}
		}
	}
	return s, nil
}

// MustSchema is NewSchema for package-level tables.
func MustSchema(name string, rule Rule, fields ...Field) *Schema {
	s, err := NewSchema(name, rule, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string      { return s.name }
func (s *Schema) Size() int         { return s.size }
func (s *Schema) Fields() []*Field  { return s.fields }
func (s *Schema) Signature() uint32 { return s.sig }

// Field looks a descriptor up by name; nil when absent.
func (s *Schema) Field(name string) *Field { return s.byName[name] }

// Valid evaluates the derived validity rule for channel ch (0-based).
func (s *Schema) Valid(r *Record, ch int) bool {
	if s.rule == nil {
		return true
	}
	return s.rule(r, ch)
}

// Defaults builds the instrument's factory record.
func (s *Schema) Defaults() *Record {
	r := &Record{s: s, buf: make([]byte, s.size)}
	for _, f := range s.fields {
		if !f.Stored() {
			continue
		}
		for ch := 0; ch < f.Len(); ch++ {
			r.put(f.span(ch), f.defaultAt(ch))
		}
	}
	return r
}

// Decode parses a serialised record. Any stored value outside its field's
// domain (a bool byte above 1, an unknown enum value) is reported as
// errcode.CorruptBlock.
func (s *Schema) Decode(b []byte) (*Record, error) {
	if len(b) < s.size {
		return nil, &errcode.E{C: errcode.CorruptBlock, Op: "decode", Msg: "short block"}
	}
	r := &Record{s: s, buf: append([]byte(nil), b[:s.size]...)}
	for _, f := range s.fields {
		if !f.Stored() {
			continue
		}
		for ch := 0; ch < f.Len(); ch++ {
			if err := f.validate(r.get(f.span(ch))); err != nil {
				return nil, &errcode.E{C: errcode.CorruptBlock, Op: "decode",
					Msg: f.Name + "[" + strconvx.Itoa(ch) + "]", Err: err}
			}
		}
	}
	return r, nil
}

func (f *Field) defaultAt(ch int) uint64 {
	if f.Default == nil {
		return 0
	}
	return f.Default(ch)
}
