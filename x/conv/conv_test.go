package conv

import "testing"

func TestAppendUint(t *testing.T) {
	for _, c := range []struct {
		n     uint64
		width int
		want  string
	}{
		{0, 1, "0"},
		{7, 1, "7"},
		{18446744073709551615, 1, "18446744073709551615"},
		{0, 6, "000000"},
		{500000, 6, "500000"},
		{1, 6, "000001"},
		{1234567, 6, "1234567"},
		{5, 0, "5"},
	} {
		if got := string(AppendUintPad([]byte("x"), c.n, c.width)); got != "x"+c.want {
			t.Fatalf("AppendUintPad(%d,%d) = %q, want %q", c.n, c.width, got, "x"+c.want)
		}
	}
	if got := string(AppendUint(nil, 42)); got != "42" {
		t.Fatalf("AppendUint = %q", got)
	}
}

func TestHex(t *testing.T) {
	if got := string(AppendHex2(AppendHex2(nil, 0x0A), 0xFF)); got != "0AFF" {
		t.Fatalf("AppendHex2 = %q", got)
	}
	for v, want := range map[uint64]string{0: "0", 0xA: "A", 0x5D10ABCD: "5D10ABCD", 1 << 63: "8000000000000000"} {
		if got := string(AppendHex(nil, v)); got != want {
			t.Fatalf("AppendHex(%#x) = %q, want %q", v, got, want)
		}
	}
}
