// Package scpi matches the abbreviation-tolerant command headers used by the
// instruments. It is not a general SCPI parser.
package scpi

import "strings"

// Match tests cand against the two accepted spellings of a keyword: the full
// form root+suffix+trail and the abbreviated form root+trail. Comparison is
// case-insensitive and the full form is tried first.
//
// Without capture the candidate must equal a spelling. With capture it only
// has to start with one, and the unconsumed remainder is returned.
func Match(cand, root, suffix, trail string, capture bool) (bool, string) {
	if suffix != "" {
		if n, ok := prefix(cand, root, suffix, trail); ok && (capture || n == len(cand)) {
			return true, cand[n:]
		}
	}
	if n, ok := prefix(cand, root, "", trail); ok && (capture || n == len(cand)) {
		return true, cand[n:]
	}
	return false, ""
}

// Equal reports whether cand is exactly word, ignoring case.
func Equal(cand, word string) bool {
	ok, _ := Match(cand, word, "", "", false)
	return ok
}

// EqualAny reports whether cand is exactly a or b, ignoring case.
func EqualAny(cand, a, b string) bool {
	return Equal(cand, a) || Equal(cand, b)
}

// prefix reports whether cand starts with a+b+c and returns that length.
func prefix(cand, a, b, c string) (int, bool) {
	n := len(a) + len(b) + len(c)
	if len(cand) < n {
		return 0, false
	}
	i := 0
	for _, part := range [3]string{a, b, c} {
		if !strings.EqualFold(cand[i:i+len(part)], part) {
			return 0, false
		}
		i += len(part)
	}
	return n, true
}

// Keyword is a command keyword in SCPI mixed-case notation: the upper-case
// head is the mandatory root, the lower-case tail the optional suffix.
// "PULSe" accepts PULS and PULSE.
type Keyword struct {
	Root   string
	Suffix string
	Trail  string
}

// K parses mixed-case notation.
func K(s string) Keyword {
	i := 0
	for i < len(s) && !(s[i] >= 'a' && s[i] <= 'z') {
		i++
	}
	return Keyword{Root: s[:i], Suffix: strings.ToUpper(s[i:])}
}

// Start consumes the keyword from the front of cand.
func (k Keyword) Start(cand string) (bool, string) {
	return Match(cand, k.Root, k.Suffix, k.Trail, true)
}

// Exact reports whether cand is one of the keyword's spellings.
func (k Keyword) Exact(cand string) bool {
	ok, _ := Match(cand, k.Root, k.Suffix, k.Trail, false)
	return ok
}

// String renders the canonical mixed-case notation.
func (k Keyword) String() string {
	return k.Root + strings.ToLower(k.Suffix) + k.Trail
}
