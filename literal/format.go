package literal

import "sdicode-go/x/conv"

// FormatMicros renders microseconds as "<seconds>.<6-digit fraction>".
func FormatMicros(us uint64) string {
	out := make([]byte, 0, 28)
	out = conv.AppendUint(out, us/1_000_000)
	out = append(out, '.')
	return string(conv.AppendUintPad(out, us%1_000_000, MicroScale))
}

func FormatUint(v uint64) string {
	return string(conv.AppendUint(make([]byte, 0, 20), v))
}

// FormatHex renders v as upper-case hex without leading zeros.
func FormatHex(v uint64) string {
	return string(conv.AppendHex(make([]byte, 0, 16), v))
}

// FormatIPv4 renders dotted decimal.
func FormatIPv4(ip [4]byte) string {
	out := make([]byte, 0, 15)
	for i, o := range ip {
		if i > 0 {
			out = append(out, '.')
		}
		out = conv.AppendUint(out, uint64(o))
	}
	return string(out)
}

// FormatMAC renders six two-digit upper-case hex fields joined by ':'.
func FormatMAC(mac [6]byte) string {
	out := make([]byte, 0, 17)
	for i, o := range mac {
		if i > 0 {
			out = append(out, ':')
		}
		out = conv.AppendHex2(out, o)
	}
	return string(out)
}
