// Package literal decodes the numeric and address literals of the command
// language into exact integers and renders them back.
package literal

import (
	"math/bits"
	"strings"

	"sdicode-go/errcode"
	"sdicode-go/x/mathx"
	"sdicode-go/x/strconvx"
)

// maxDigits is the longest digit run a uint64 can hold.
const maxDigits = 20

// MicroScale converts seconds as typed into microseconds as stored.
const MicroScale = 6

// ParseScaled decodes "<int>[.<frac>][e<exp>]" into the truncated integer
// value of <int>.<frac>·10^(exp+scale). Zero results are rejected unless
// allowZero is set.
func ParseScaled(text string, allowZero bool, scale int) (uint64, error) {
	mant, exp := text, ""
	hasExp := false
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		mant, exp, hasExp = text[:i], text[i+1:], true
	}
	whole, frac := mant, ""
	hasPoint := false
	if i := strings.IndexByte(mant, '.'); i >= 0 {
		whole, frac, hasPoint = mant[:i], mant[i+1:], true
	}
	if (whole == "" && !hasPoint) || (hasPoint && frac == "") || !isDigits(whole) || !isDigits(frac) {
		return 0, errcode.MalformedLiteral
	}

	e := 0
	if hasExp {
		var err error
		if e, err = strconvx.Atoi(exp); err != nil {
			if strconvx.IsRange(err) {
				return 0, errcode.OutOfRange
			}
			return 0, errcode.MalformedLiteral
		}
		// Past this every non-zero mantissa overflows or truncates to 0.
		bound := len(text) + maxDigits
		e = mathx.Clamp(e, -bound, bound)
	}

	// value = d·10^p, truncated
	d := strings.TrimLeft(whole+frac, "0")
	p := e + scale - len(frac)
	if p < 0 {
		d = d[:max(len(d)+p, 0)]
		p = 0
	}
	var v uint64
	if d != "" {
		if len(d) > maxDigits {
			return 0, errcode.OutOfRange
		}
		var err error
		if v, err = digits(d); err != nil {
			return 0, err
		}
		var ok bool
		if v, ok = pow10(v, p); !ok {
			return 0, errcode.OutOfRange
		}
	}
	if v == 0 && !allowZero {
		return 0, errcode.OutOfRange
	}
	return v, nil
}

// ParseInt decodes an unscaled literal.
func ParseInt(text string, allowZero bool) (uint64, error) {
	return ParseScaled(text, allowZero, 0)
}

// ParseMicros decodes seconds into microseconds.
func ParseMicros(text string, allowZero bool) (uint64, error) {
	return ParseScaled(text, allowZero, MicroScale)
}

// digits parses a plain, unsigned run of decimal digits.
func digits(s string) (uint64, error) {
	v, err := strconvx.ParseUint(s, 10, 64)
	if err != nil {
		if strconvx.IsRange(err) {
			return 0, errcode.OutOfRange
		}
		return 0, errcode.MalformedLiteral
	}
	return v, nil
}

// pow10 scales x by 10^z, z >= 0.
func pow10(x uint64, z int) (uint64, bool) {
	for ; z > 0 && x != 0; z-- {
		hi, lo := bits.Mul64(x, 10)
		if hi != 0 {
			return 0, false
		}
		x = lo
	}
	return x, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
