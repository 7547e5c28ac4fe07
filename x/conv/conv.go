// Package conv appends decimal and hex digits to byte slices without fmt or
// strconv, so reply rendering stays allocation-light on the MCU.
package conv

const hexDigits = "0123456789ABCDEF"

// AppendUint appends n in base 10.
func AppendUint(dst []byte, n uint64) []byte {
	return AppendUintPad(dst, n, 1)
}

// AppendUintPad appends n in base 10, zero-padded to at least width digits.
func AppendUintPad(dst []byte, n uint64, width int) []byte {
	var tmp [20]byte
	i := len(tmp)
	for n > 0 || i == len(tmp) {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	for pad := width - (len(tmp) - i); pad > 0; pad-- {
		dst = append(dst, '0')
	}
	return append(dst, tmp[i:]...)
}

// AppendHex2 appends both upper-case hex digits of b.
func AppendHex2(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0xF])
}

// AppendHex appends v in upper-case hex without leading zeros.
func AppendHex(dst []byte, v uint64) []byte {
	shift := 60
	for shift > 0 && v>>uint(shift) == 0 {
		shift -= 4
	}
	for ; shift >= 0; shift -= 4 {
		dst = append(dst, hexDigits[(v>>uint(shift))&0xF])
	}
	return dst
}
