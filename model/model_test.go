package model

import (
	"errors"
	"testing"

	"sdicode-go/errcode"
	"sdicode-go/literal"
)

const ceiling = 4_000_000_000

var edges = []Choice{{"RISing", 0}, {"FALLing", 1}}

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("test", Budget("delay", "period", "cycles", ceiling),
		Field{Name: "edge", Kind: Enum, Enum: edges},
		Field{Name: "rearm", Kind: Bool, Default: func(int) uint64 { return 1 }},
		Field{Name: "freq", Kind: Hertz, Max: 5_000_000, Default: func(int) uint64 { return 1_000_000 }},
		Field{Name: "delay", Kind: Micros, Channels: 4, AllowZero: true},
		Field{Name: "period", Kind: Micros, Channels: 4, AllowZero: true,
			Default: func(int) uint64 { return 20_000 }},
		Field{Name: "cycles", Kind: Count, Channels: 4, AllowZero: true,
			Default: func(ch int) uint64 {
				if ch == 0 {
					return 1
				}
				return 0
			}},
		Field{Name: "valid", Kind: Bool, Channels: 4, Derive: ValidFlag},
		Field{Name: "serial", Kind: Count, ReadOnly: true, AllowZero: true},
		Field{Name: "port", Kind: Port, Default: func(int) uint64 { return 5000 }},
		Field{Name: "ip", Kind: IPv4, Default: func(int) uint64 {
			return literal.PackIPv4([4]byte{192, 168, 0, 100})
		}},
		Field{Name: "mac", Kind: MAC},
	)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func TestLayout(t *testing.T) {
	s := testSchema(t)
	// 1+1+4 + 3*16 + 4 + 2 + 4 + 6
	if got, want := s.Size(), 1+1+4+16*3+4+2+4+6; got != want {
		t.Fatalf("Size = %d, want %d", got, want)
	}
	if sp := s.Field("period").span(2); sp.Off != 6+16+8 || sp.Len != 4 {
		t.Fatalf("period[2] span = %+v", sp)
	}
	if s.Field("valid").Stored() || !s.Field("valid").ReadOnly {
		t.Fatal("derived field must be read-only and not stored")
	}
}

func TestDefaultsIdempotent(t *testing.T) {
	s := testSchema(t)
	a, b := s.Defaults(), s.Defaults()
	if !a.Equal(b) {
		t.Fatalf("defaults differ:\n%v\n%v", a.Bytes(), b.Bytes())
	}
	if got, _ := a.Format("ip", 0); got != "192.168.0.100" {
		t.Fatalf("ip default = %q", got)
	}
	if got, _ := a.Format("edge", 0); got != "RISING" {
		t.Fatalf("edge default = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	s := testSchema(t)
	r := s.Defaults()
	for _, c := range []struct {
		name string
		ch   int
		text string
	}{
		{"edge", 0, "FALL"},
		{"delay", 1, "0.5"},
		{"mac", 0, "DE:AD:BE:EF:00:01"},
		{"port", 0, "8080"},
	} {
		if _, err := r.Set(c.name, c.ch, c.text); err != nil {
			t.Fatalf("Set(%s): %v", c.name, err)
		}
	}
	back, err := s.Decode(r.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !back.Equal(r) {
		t.Fatal("round trip mismatch")
	}
	if got, _ := back.Format("delay", 1); got != "0.500000" {
		t.Fatalf("delay[1] = %q", got)
	}
	if got, _ := back.Format("mac", 0); got != "DE:AD:BE:EF:00:01" {
		t.Fatalf("mac = %q", got)
	}
}

func TestApplyValidation(t *testing.T) {
	s := testSchema(t)
	type C struct {
		name string
		ch   int
		text string
		want errcode.Code
	}
	for _, c := range []C{
		{"edge", 0, "EDGY", errcode.MalformedLiteral},
		{"edge", 0, "FALLI", errcode.MalformedLiteral},
		{"rearm", 0, "2", errcode.OutOfRange},
		{"rearm", 0, "x", errcode.MalformedLiteral},
		{"freq", 0, "5000001", errcode.OutOfRange},
		{"freq", 0, "0", errcode.OutOfRange},
		{"port", 0, "65536", errcode.OutOfRange},
		{"port", 0, "0", errcode.OutOfRange},
		{"delay", 4, "1", errcode.UnknownKeyword},
		{"nope", 0, "1", errcode.UnknownKeyword},
		{"valid", 0, "1", errcode.ReadOnlyField},
		{"serial", 0, "1", errcode.ReadOnlyField},
		{"delay", 0, "5000", errcode.OutOfRange},
		{"ip", 0, "1.2.3.256", errcode.OutOfRange},
	} {
		r := s.Defaults()
		before := r.Bytes()
		_, err := r.Set(c.name, c.ch, c.text)
		if errcode.Of(err) != c.want {
			t.Fatalf("Set(%s[%d], %q) err = %v, want %s", c.name, c.ch, c.text, err, c.want)
		}
		if string(before) != string(r.Bytes()) {
			t.Fatalf("Set(%s, %q) mutated record on failure", c.name, c.text)
		}
	}
}

func TestApplySpan(t *testing.T) {
	s := testSchema(t)
	r := s.Defaults()
	sp, err := r.Apply("cycles", 3, 7)
	if err != nil {
		t.Fatal(err)
	}
	if want := s.Field("cycles").span(3); sp != want {
		t.Fatalf("span = %+v, want %+v", sp, want)
	}
	b := r.Bytes()
	if b[sp.Off] != 7 || b[sp.Off+1] != 0 {
		t.Fatalf("bytes at span = %v", b[sp.Off:sp.Off+sp.Len])
	}
}

func TestBudgetBoundary(t *testing.T) {
	s := testSchema(t)
	r := s.Defaults()
	mustApply(t, r, "delay", 0, 1_000_000)
	mustApply(t, r, "period", 0, 1_000_000)
	mustApply(t, r, "cycles", 0, 3_999)
	if !s.Valid(r, 0) || r.Value("valid", 0) != 1 {
		t.Fatal("exactly at the ceiling must be valid")
	}
	mustApply(t, r, "delay", 0, 1_000_001)
	if s.Valid(r, 0) {
		t.Fatal("one microsecond beyond the ceiling must be invalid")
	}
	if got, _ := r.Format("valid", 0); got != "0" {
		t.Fatalf("valid = %q", got)
	}
	// over-budget values are still stored
	mustApply(t, r, "cycles", 0, 4_294_967_295)
	mustApply(t, r, "period", 0, 4_294_967_295)
	if s.Valid(r, 0) {
		t.Fatal("overflowing product must be invalid")
	}
}

func TestDecodeCorruption(t *testing.T) {
	s := testSchema(t)
	good := s.Defaults().Bytes()

	bad := append([]byte(nil), good...)
	bad[s.Field("rearm").offset] = 2
	if _, err := s.Decode(bad); errcode.Of(err) != errcode.CorruptBlock {
		t.Fatalf("bool byte 2: err = %v", err)
	}

	bad = append([]byte(nil), good...)
	bad[s.Field("edge").offset] = 9
	if _, err := s.Decode(bad); errcode.Of(err) != errcode.CorruptBlock {
		t.Fatalf("enum byte 9: err = %v", err)
	}

	if _, err := s.Decode(good[:3]); errcode.Of(err) != errcode.CorruptBlock {
		t.Fatalf("short block: err = %v", err)
	}
}

func TestSchemaErrors(t *testing.T) {
	_, err := NewSchema("dup", nil,
		Field{Name: "a", Kind: Bool},
		Field{Name: "a", Kind: Bool})
	if !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("duplicate: %v", err)
	}
	_, err = NewSchema("bad-default", nil, Field{Name: "f", Kind: Hertz})
	if !errors.Is(err, ErrBadDefault) {
		t.Fatalf("zero default for non-zero field: %v", err)
	}
	_, err = NewSchema("enum", nil, Field{Name: "e", Kind: Enum})
	if !errors.Is(err, ErrBadField) {
		t.Fatalf("empty enum: %v", err)
	}
	if s := MustSchema("sig", nil, Field{Name: "a", Kind: Bool}); s.Signature() == testSchema(t).Signature() {
		t.Fatal("different schemas should have different signatures")
	}
}

func mustApply(t *testing.T, r *Record, name string, ch int, v uint64) {
	t.Helper()
	if _, err := r.Apply(name, ch, v); err != nil {
		t.Fatalf("Apply(%s[%d]=%d): %v", name, ch, v, err)
	}
}
