//go:build !rp2040

package nvm

import (
	"fmt"
	"os"
)

// File is a Memory backed by an image file on the host. A new or short file
// is extended with erased cells.
type File struct {
	f    *os.File
	size int
}

func OpenFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat image %s: %w", path, err)
	}
	if have := int(st.Size()); have < size {
		pad := make([]byte, size-have)
		for i := range pad {
			pad[i] = Erased
		}
		if _, err := f.WriteAt(pad, int64(have)); err != nil {
			f.Close()
			return nil, fmt.Errorf("extend image %s: %w", path, err)
		}
	}
	return &File{f: f, size: size}, nil
}

func (m *File) Size() int { return m.size }

func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if !inBounds(m, len(p), off) {
		return 0, ErrBounds
	}
	return m.f.ReadAt(p, off)
}

// WriteAt writes through and syncs, so a completed call survives a crash.
func (m *File) WriteAt(p []byte, off int64) (int, error) {
	if !inBounds(m, len(p), off) {
		return 0, ErrBounds
	}
	n, err := m.f.WriteAt(p, off)
	if err != nil {
		return n, err
	}
	return n, m.f.Sync()
}

func (m *File) Close() error { return m.f.Close() }
