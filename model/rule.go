package model

import "math/bits"

// Budget returns a Rule that holds while delay + period·cycles <= ceiling
// for the channel. The sum is computed without overflow.
func Budget(delay, period, cycles string, ceiling uint64) Rule {
	return func(r *Record, ch int) bool {
		hi, span := bits.Mul64(r.Value(period, ch), r.Value(cycles, ch))
		if hi != 0 {
			return false
		}
		total, carry := bits.Add64(span, r.Value(delay, ch), 0)
		return carry == 0 && total <= ceiling
	}
}

// ValidFlag derives a 0/1 field from the schema's rule.
func ValidFlag(r *Record, ch int) uint64 {
	if r.Schema().Valid(r, ch) {
		return 1
	}
	return 0
}
