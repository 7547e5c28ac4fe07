// Package transport adapts byte links (TCP, serial ports, MCU UARTs) to the
// polled, non-blocking input the command session consumes.
package transport

import (
	"context"
	"io"
	"sync"

	"sdicode-go/x/shmring"
)

// RingSize is the receive buffer of every stream.
const RingSize = 256

// Receiver blocks until some bytes arrive or ctx ends.
type Receiver interface {
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}

// ReaderReceiver adapts a blocking io.Reader; closing the reader is what
// unblocks it.
type ReaderReceiver struct{ R io.Reader }

func (r ReaderReceiver) RecvSomeContext(_ context.Context, buf []byte) (int, error) {
	return r.R.Read(buf)
}

// Stream buffers received bytes in a ring filled by one reader goroutine.
type Stream struct {
	ring   *shmring.Ring
	w      io.Writer
	c      io.Closer
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Open wraps a ReadWriteCloser such as a net.Conn or a serial port.
func Open(rw io.ReadWriteCloser) *Stream {
	return NewStream(context.Background(), ReaderReceiver{rw}, rw, rw)
}

// NewStream starts receiving from rx. c may be nil.
func NewStream(ctx context.Context, rx Receiver, tx io.Writer, c io.Closer) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		ring:   shmring.New(RingSize),
		w:      tx,
		c:      c,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.recv(ctx, rx)
	return s
}

func (s *Stream) recv(ctx context.Context, rx Receiver) {
	var buf [64]byte
	for {
		n, err := rx.RecvSomeContext(ctx, buf[:])
		p := buf[:n]
		for len(p) > 0 {
			p = p[s.ring.WriteFrom(p):]
			if len(p) == 0 {
				break
			}
			select {
			case <-s.ring.Writable():
			case <-ctx.Done():
				s.finish(ctx.Err())
				return
			}
		}
		if err != nil {
			s.finish(err)
			return
		}
	}
}

func (s *Stream) finish(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	close(s.done)
}

// TryReadByte pops one buffered byte without blocking.
func (s *Stream) TryReadByte() (byte, bool) { return s.ring.TryReadByte() }

// Discard drops everything buffered and returns the count.
func (s *Stream) Discard() int { return s.ring.Discard() }

// Readable fires when the buffer goes from empty to non-empty.
func (s *Stream) Readable() <-chan struct{} { return s.ring.Readable() }

// WriteBytes sends p, followed by "\r\n" when eol is set. It
// writes even after the receive side has stopped.
func (s *Stream) WriteBytes(p []byte, eol bool) error {
	if eol {
		p = append(p[:len(p):len(p)], '\r', '\n')
	}
	_, err := s.w.Write(p)
	return err
}

// Done is closed once the receive side has stopped.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Err reports why the receive side stopped.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the reader and closes the underlying link.
func (s *Stream) Close() error {
	s.cancel()
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}
