package literal

import (
	"strings"
	"testing"

	"sdicode-go/errcode"
)

func TestParseScaled(t *testing.T) {
	type C struct {
		text      string
		allowZero bool
		scale     int
		want      uint64
		err       errcode.Code
	}
	for _, c := range []C{
		{"1.5", false, 6, 1500000, ""},
		{"0", false, 0, 0, errcode.OutOfRange},
		{"0", true, 0, 0, ""},
		{"2e-1", true, 0, 0, ""},
		{"2e-1", false, 0, 0, errcode.OutOfRange},
		{"0.01", false, 6, 10000, ""},
		{".5", false, 6, 500000, ""},
		{"1e3", false, 0, 1000, ""},
		{"1E3", false, 0, 1000, ""},
		{"1.25e1", false, 0, 12, ""},
		{"15e-1", false, 0, 1, ""},
		{"4000", false, 6, 4000000000, ""},
		{"0.0000001", true, 6, 0, ""},
		{"007", false, 0, 7, ""},
		{"1e+2", false, 0, 100, ""},
		{"", false, 0, 0, errcode.MalformedLiteral},
		{"abc", true, 0, 0, errcode.MalformedLiteral},
		{"-1", true, 0, 0, errcode.MalformedLiteral},
		{"+1", true, 0, 0, errcode.MalformedLiteral},
		{"1.", true, 0, 0, errcode.MalformedLiteral},
		{"1.2.3", true, 0, 0, errcode.MalformedLiteral},
		{"1e", true, 0, 0, errcode.MalformedLiteral},
		{"1ex", true, 0, 0, errcode.MalformedLiteral},
		{"1 ", true, 0, 0, errcode.MalformedLiteral},
		{"18446744073709551616", true, 0, 0, errcode.OutOfRange},
		{"18446744073709551615", true, 0, 18446744073709551615, ""},
		{"1e20", true, 0, 0, errcode.OutOfRange},
		{"0e400", true, 0, 0, ""},
		{"5e-400", true, 0, 0, ""},
		{"0.12345678901234567890123", true, 6, 123456, ""},
		{"1.99999999999999999999999", false, 0, 1, ""},
		{"100000000000000000000e-10", false, 0, 10000000000, ""},
		{"0." + strings.Repeat("0", 80) + "5e81", false, 0, 5, ""},
		{"0." + strings.Repeat("0", 80) + "5e80", true, 0, 0, ""},
		{".", true, 0, 0, errcode.MalformedLiteral},
		{"e5", true, 0, 0, errcode.MalformedLiteral},
	} {
		got, err := ParseScaled(c.text, c.allowZero, c.scale)
		if c.err != "" {
			if errcode.Of(err) != c.err {
				t.Fatalf("ParseScaled(%q) err = %v, want %s", c.text, err, c.err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseScaled(%q) unexpected error: %v", c.text, err)
		}
		if got != c.want {
			t.Fatalf("ParseScaled(%q,%v,%d) = %d, want %d", c.text, c.allowZero, c.scale, got, c.want)
		}
	}
}

func TestTruncationIsReproducible(t *testing.T) {
	for i := 0; i < 3; i++ {
		v, err := ParseMicros("0.0000019", true)
		if err != nil || v != 1 {
			t.Fatalf("ParseMicros truncation: %d, %v", v, err)
		}
	}
}

func TestSplit(t *testing.T) {
	f, ok := Split("a.b.c.d.e", '.', 4)
	if !ok || len(f) != 4 || f[3] != "d.e" {
		t.Fatalf("Split extra separators: %q %v", f, ok)
	}
	if _, ok := Split("a.b", '.', 4); ok {
		t.Fatal("Split with too few separators should fail")
	}
	f, ok = Split("..", '.', 3)
	if !ok || f[0] != "" || f[1] != "" || f[2] != "" {
		t.Fatalf("Split empty fields: %q %v", f, ok)
	}
}

func TestParseIPv4(t *testing.T) {
	ip, err := ParseIPv4("192.168.0.100")
	if err != nil || ip != [4]byte{192, 168, 0, 100} {
		t.Fatalf("ParseIPv4 = %v, %v", ip, err)
	}
	ip, err = ParseIPv4("192.168.0.00")
	if err != nil || ip[3] != 0 {
		t.Fatalf("leading zero octet: %v, %v", ip, err)
	}
	for text, want := range map[string]errcode.Code{
		"256.0.0.1": errcode.OutOfRange,
		"1.2.3":     errcode.MalformedLiteral,
		"1.2.3.4.5": errcode.MalformedLiteral,
		"1..3.4":    errcode.MalformedLiteral,
		"a.b.c.d":   errcode.MalformedLiteral,
		"1.2.3.-4":  errcode.MalformedLiteral,
	} {
		if _, err := ParseIPv4(text); errcode.Of(err) != want {
			t.Fatalf("ParseIPv4(%q) err = %v, want %s", text, err, want)
		}
	}
}

func TestParseMAC(t *testing.T) {
	mac, err := ParseMAC("1A:2B:3C:4D:5E:6F")
	if err != nil || mac != [6]byte{0x1A, 0x2B, 0x3C, 0x4D, 0x5E, 0x6F} {
		t.Fatalf("ParseMAC = %X, %v", mac, err)
	}
	mac, err = ParseMAC("a:b:c:d:e:f")
	if err != nil || mac != [6]byte{0xA, 0xB, 0xC, 0xD, 0xE, 0xF} {
		t.Fatalf("single-digit fields: %X, %v", mac, err)
	}
	for _, text := range []string{
		"1A:2B:3C:4D:5E",
		"1A:2B:3C:4D:5E:6FF",
		"1A:2B:3C:4D::6F",
		"1G:2B:3C:4D:5E:6F",
		"1A:2B:3C:4D:5E:6F:77",
	} {
		if _, err := ParseMAC(text); errcode.Of(err) != errcode.MalformedLiteral {
			t.Fatalf("ParseMAC(%q) err = %v", text, err)
		}
	}
}

func TestPackRoundTrip(t *testing.T) {
	ip := [4]byte{192, 168, 0, 1}
	if v := PackIPv4(ip); v != 0x0100A8C0 || UnpackIPv4(v) != ip {
		t.Fatalf("PackIPv4 = %#x", v)
	}
	mac := [6]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01}
	if UnpackMAC(PackMAC(mac)) != mac {
		t.Fatal("MAC pack round trip")
	}
}

func TestFormatters(t *testing.T) {
	for us, want := range map[uint64]string{
		0:          "0.000000",
		1500000:    "1.500000",
		10000:      "0.010000",
		1:          "0.000001",
		4000000000: "4000.000000",
	} {
		if got := FormatMicros(us); got != want {
			t.Fatalf("FormatMicros(%d) = %q, want %q", us, got, want)
		}
	}
	if got := FormatIPv4([4]byte{10, 0, 0, 255}); got != "10.0.0.255" {
		t.Fatalf("FormatIPv4 = %q", got)
	}
	if got := FormatMAC([6]byte{0x0A, 0x2B, 0, 0x4D, 0x5E, 0xFF}); got != "0A:2B:00:4D:5E:FF" {
		t.Fatalf("FormatMAC = %q", got)
	}
	for v, want := range map[uint64]string{0: "0", 0xF: "F", 0xABC: "ABC", 0x5D10000: "5D10000"} {
		if got := FormatHex(v); got != want {
			t.Fatalf("FormatHex(%#x) = %q, want %q", v, got, want)
		}
	}
	if got := FormatUint(5000000); got != "5000000" {
		t.Fatalf("FormatUint = %q", got)
	}
}
