//go:build !rp2040

package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// Logger is satisfied by *charmbracelet/log.Logger.
type Logger interface {
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Info(any, ...any) {}
func (nopLogger) Warn(any, ...any) {}

// Handler serves one connected client. Its context ends when the client
// goes away.
type Handler func(ctx context.Context, s *Stream) error

// Listener accepts one TCP client at a time.
type Listener struct {
	ln  net.Listener
	log Logger
}

func Listen(addr string, log Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Listener{ln: ln, log: log}, nil
}

func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve runs h for each client in turn until ctx ends or h fails for a
// reason other than the client disconnecting.
func (l *Listener) Serve(ctx context.Context, h Handler) error {
	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		l.log.Info("client connected", "remote", conn.RemoteAddr())
		err = l.serve(ctx, conn, h)
		l.log.Info("client disconnected", "remote", conn.RemoteAddr())
		if err != nil {
			l.ln.Close()
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (l *Listener) serve(ctx context.Context, conn net.Conn, h Handler) error {
	s := Open(conn)
	defer s.Close()

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.Done():
			cancel()
		case <-cctx.Done():
		}
	}()

	err := h(cctx, s)
	if disconnected(err) {
		return nil
	}
	return err
}

// disconnected reports errors that only mean the client went away.
func disconnected(err error) bool {
	for _, e := range []error{context.Canceled, io.EOF, net.ErrClosed, syscall.EPIPE, syscall.ECONNRESET} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Close stops accepting.
func (l *Listener) Close() error { return l.ln.Close() }
