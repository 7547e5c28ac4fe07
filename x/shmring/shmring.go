package shmring

import "sync/atomic"

// Ring is a single-producer, single-consumer byte ring.
// The producer calls WriteFrom; the consumer calls TryReadByte or Discard.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // 0->>0 available edge
	writable chan struct{} // full->not full edge
}

// New allocates a ring; size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Producer side

// WriteFrom copies as much of src as fits and returns the count.
func (r *Ring) WriteFrom(src []byte) (n int) {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	beforeAvail := wr - rd
	n = int(r.size() - beforeAvail)
	if n <= 0 {
		return 0
	}
	if len(src) < n {
		n = len(src)
	}

	wrIdx := wr & r.mask
	first := int(r.size() - wrIdx)
	if first > n {
		first = n
	}
	copy(r.buf[wrIdx:wrIdx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr.Store(wr + uint32(n)) // release

	if beforeAvail == 0 {
		signal(r.readable)
	}
	return n
}

// Consumer side

// readInto copies up to len(dst) buffered bytes and returns the count.
func (r *Ring) readInto(dst []byte) (n int) {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	n = int(wr - rd)
	if n <= 0 {
		return 0
	}
	if len(dst) < n {
		n = len(dst)
	}

	rdIdx := rd & r.mask
	first := int(r.size() - rdIdx)
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[rdIdx:rdIdx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(rd + uint32(n)) // release

	if wr-rd == r.size() {
		signal(r.writable)
	}
	return n
}

// TryReadByte pops one byte; ok is false when the ring is empty.
func (r *Ring) TryReadByte() (b byte, ok bool) {
	var one [1]byte
	if r.readInto(one[:]) == 0 {
		return 0, false
	}
	return one[0], true
}

// Discard drops everything currently buffered and returns the count.
func (r *Ring) Discard() int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr == rd {
		return 0
	}
	r.rd.Store(wr)
	if wr-rd == r.size() {
		signal(r.writable)
	}
	return int(wr - rd)
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
