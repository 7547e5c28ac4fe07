package scpi

import (
	"strings"

	"sdicode-go/x/strconvx"
)

// Segment is one level of a command path. Indexed segments take a decimal
// channel number directly after the keyword (":PULS2").
type Segment struct {
	Key     Keyword
	Indexed bool
}

// Path is an ordered chain of segments, matched left to right.
type Path []Segment

// Hit is the result of a successful Path.Match.
type Hit struct {
	Channel int // 1-based; 1 when the header omits the index
	Query   bool
}

// ParsePath builds a Path from notation such as ":PULSe#:DELay", where '#'
// marks an indexed segment. It panics on empty segments; paths are declared
// at build time.
func ParsePath(s string) Path {
	s = strings.TrimPrefix(s, ":")
	var p Path
	for _, part := range strings.Split(s, ":") {
		if part == "" {
			panic("scpi: empty segment in path " + s)
		}
		seg := Segment{}
		if strings.HasSuffix(part, "#") {
			seg.Indexed = true
			part = part[:len(part)-1]
		}
		seg.Key = K(part)
		p = append(p, seg)
	}
	return p
}

// Match tests a command header (no argument) against the path. A single
// leading ':' and a trailing '?' are accepted; the final segment must be
// matched exactly.
func (p Path) Match(header string) (Hit, bool) {
	var h Hit
	rest := header
	if strings.HasSuffix(rest, "?") {
		h.Query = true
		rest = rest[:len(rest)-1]
	}
	rest = strings.TrimPrefix(rest, ":")
	h.Channel = 1

	for i, seg := range p {
		if i > 0 {
			if !strings.HasPrefix(rest, ":") {
				return Hit{}, false
			}
			rest = rest[1:]
		}
		last := i == len(p)-1
		if last && !seg.Indexed {
			if !seg.Key.Exact(rest) {
				return Hit{}, false
			}
			return h, true
		}
		ok, r := seg.Key.Start(rest)
		if !ok {
			return Hit{}, false
		}
		if seg.Indexed {
			n := 0
			for n < len(r) && r[n] >= '0' && r[n] <= '9' {
				n++
			}
			if n > 0 {
				ch, err := strconvx.Atoi(r[:n])
				if err != nil {
					return Hit{}, false
				}
				h.Channel = ch
			}
			r = r[n:]
		}
		rest = r
	}
	if rest != "" {
		return Hit{}, false
	}
	return h, true
}

// String renders the path in the notation ParsePath accepts.
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		if !strings.HasPrefix(seg.Key.Root, "*") {
			b.WriteByte(':')
		}
		b.WriteString(seg.Key.String())
		if seg.Indexed {
			b.WriteByte('#')
		}
	}
	return b.String()
}
