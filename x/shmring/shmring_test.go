package shmring

import (
	"sync"
	"testing"
	"time"
)

func TestOrderAcrossWrapWithPartialProgress(t *testing.T) {
	r := New(64)

	const N = 2000
	src := make([]byte, N)
	for i := range src {
		src[i] = byte(i)
	}

	p := src
	dst := make([]byte, 0, N)
	for len(dst) < N {
		if len(p) > 0 {
			step := 7
			if step > len(p) {
				step = len(p)
			}
			p = p[r.WriteFrom(p[:step]):]
		}
		var tmp [5]byte
		n := r.readInto(tmp[:])
		dst = append(dst, tmp[:n]...)
	}
	for i := 0; i < N; i++ {
		if dst[i] != src[i] {
			t.Fatalf("mismatch at %d: got=%d want=%d", i, dst[i], src[i])
		}
	}
}

func TestConcurrentProducer(t *testing.T) {
	r := New(16)
	const N = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < N; {
			if r.WriteFrom([]byte{byte(i)}) == 1 {
				i++
				continue
			}
			select {
			case <-r.Writable():
			case <-time.After(time.Millisecond):
			}
		}
	}()

	for i := 0; i < N; {
		b, ok := r.TryReadByte()
		if !ok {
			select {
			case <-r.Readable():
			case <-time.After(time.Millisecond):
			}
			continue
		}
		if b != byte(i) {
			t.Fatalf("byte %d: got %d", i, b)
		}
		i++
	}
	wg.Wait()
}

func TestReadableWritableEdges(t *testing.T) {
	r := New(4)
	select {
	case <-r.Readable():
		t.Fatal("unexpected Readable on empty ring")
	default:
	}
	if n := r.WriteFrom([]byte{1, 2, 3, 4, 5}); n != 4 {
		t.Fatalf("write into size 4 -> %d", n)
	}
	select {
	case <-r.Readable():
	default:
		t.Fatal("expected Readable")
	}
	select {
	case <-r.Readable():
		t.Fatal("unexpected extra Readable")
	default:
	}
	if n := r.WriteFrom([]byte{9}); n != 0 {
		t.Fatalf("write into full ring -> %d", n)
	}
	r.readInto(make([]byte, 1))
	select {
	case <-r.Writable():
	default:
		t.Fatal("expected Writable after leaving full")
	}
}

func TestDiscard(t *testing.T) {
	r := New(8)
	r.WriteFrom([]byte("abc"))
	if n := r.Discard(); n != 3 {
		t.Fatalf("discard = %d, want 3", n)
	}
	if _, ok := r.TryReadByte(); ok {
		t.Fatal("ring should be empty")
	}
	if n := r.WriteFrom(make([]byte, 8)); n != 8 {
		t.Fatalf("write after discard -> %d, want 8", n)
	}
}
