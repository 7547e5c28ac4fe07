// Package nvm provides byte-addressable non-volatile memory backends.
package nvm

import (
	"errors"
	"io"
)

// Memory is the store's view of non-volatile memory.
type Memory interface {
	io.ReaderAt
	io.WriterAt
	Size() int
}

// Erased is the value of a never-written cell.
const Erased = 0xFF

var ErrBounds = errors.New("nvm: access out of bounds")

func inBounds(m Memory, n int, off int64) bool {
	return off >= 0 && off+int64(n) <= int64(m.Size())
}

// Mem is a RAM-backed Memory that records every write. It backs tests and
// the host emulator when no image file is configured.
type Mem struct {
	buf    []byte
	writes []Write
}

// Write is one recorded WriteAt call.
type Write struct {
	Off int
	Len int
}

func NewMem(size int) *Mem {
	m := &Mem{buf: make([]byte, size)}
	for i := range m.buf {
		m.buf[i] = Erased
	}
	return m
}

func (m *Mem) Size() int { return len(m.buf) }

func (m *Mem) ReadAt(p []byte, off int64) (int, error) {
	if !inBounds(m, len(p), off) {
		return 0, ErrBounds
	}
	return copy(p, m.buf[off:]), nil
}

func (m *Mem) WriteAt(p []byte, off int64) (int, error) {
	if !inBounds(m, len(p), off) {
		return 0, ErrBounds
	}
	m.writes = append(m.writes, Write{Off: int(off), Len: len(p)})
	return copy(m.buf[off:], p), nil
}

// Writes returns and clears the write log.
func (m *Mem) Writes() []Write {
	w := m.writes
	m.writes = nil
	return w
}

// Bytes returns a copy of the whole memory.
func (m *Mem) Bytes() []byte { return append([]byte(nil), m.buf...) }
