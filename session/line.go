package session

// MaxLine bounds an accumulated command line, terminator excluded.
const MaxLine = 64

// ByteSource yields buffered input without blocking.
type ByteSource interface {
	TryReadByte() (byte, bool)
}

// LineReader accumulates bytes across polls until a terminator or MaxLine.
type LineReader struct {
	buf [MaxLine]byte
	n   int
}

// Poll consumes whatever src has buffered. It reports a line once a '\n' or
// '\r' arrives or the buffer fills; bytes still buffered after that are
// discarded. An empty line is reported as ("", true).
func (l *LineReader) Poll(src ByteSource) (string, bool) {
	for {
		c, ok := src.TryReadByte()
		if !ok {
			return "", false
		}
		if c == '\n' || c == '\r' {
			return l.take(src), true
		}
		l.buf[l.n] = c
		l.n++
		if l.n == MaxLine {
			return l.take(src), true
		}
	}
}

// Pending is the number of bytes held for an unterminated line.
func (l *LineReader) Pending() int { return l.n }

// discarder drops everything a source has buffered at once.
type discarder interface {
	Discard() int
}

func (l *LineReader) take(src ByteSource) string {
	line := string(l.buf[:l.n])
	l.n = 0
	if d, ok := src.(discarder); ok {
		d.Discard()
		return line
	}
	for {
		if _, ok := src.TryReadByte(); !ok {
			return line
		}
	}
}
