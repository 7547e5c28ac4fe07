package literal

import (
	"strings"

	"sdicode-go/errcode"
)

// Split cuts text at the first n-1 occurrences of sep. Separators past that
// stay inside the last field. ok is false when fewer than n-1 exist.
func Split(text string, sep byte, n int) (fields []string, ok bool) {
	if n < 1 {
		return nil, false
	}
	fields = make([]string, 0, n)
	for len(fields) < n-1 {
		i := strings.IndexByte(text, sep)
		if i < 0 {
			return nil, false
		}
		fields = append(fields, text[:i])
		text = text[i+1:]
	}
	return append(fields, text), true
}

// ParseIPv4 decodes dotted decimal; every octet is a plain 0..255 integer.
func ParseIPv4(text string) ([4]byte, error) {
	var ip [4]byte
	fields, ok := Split(text, '.', 4)
	if !ok {
		return ip, errcode.MalformedLiteral
	}
	for i, f := range fields {
		v, err := digits(f)
		if err != nil {
			return [4]byte{}, err
		}
		if v > 255 {
			return [4]byte{}, errcode.OutOfRange
		}
		ip[i] = byte(v)
	}
	return ip, nil
}

// ParseMAC decodes six colon-separated fields of one or two hex digits.
func ParseMAC(text string) ([6]byte, error) {
	var mac [6]byte
	fields, ok := Split(text, ':', 6)
	if !ok {
		return mac, errcode.MalformedLiteral
	}
	for i, f := range fields {
		if len(f) < 1 || len(f) > 2 {
			return [6]byte{}, errcode.MalformedLiteral
		}
		var v byte
		for j := 0; j < len(f); j++ {
			d, ok := unhex(f[j])
			if !ok {
				return [6]byte{}, errcode.MalformedLiteral
			}
			v = v<<4 | d
		}
		mac[i] = v
	}
	return mac, nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Octets are packed with octet 0 in the least significant byte, so the
// little-endian encoding of the value is the address in wire order.

func PackIPv4(ip [4]byte) uint64 { return pack(ip[:]) }
func PackMAC(mac [6]byte) uint64 { return pack(mac[:]) }

func UnpackIPv4(v uint64) (ip [4]byte) {
	unpack(ip[:], v)
	return ip
}

func UnpackMAC(v uint64) (mac [6]byte) {
	unpack(mac[:], v)
	return mac
}

func pack(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func unpack(dst []byte, v uint64) {
	for i := range dst {
		dst[i] = byte(v)
		v >>= 8
	}
}
