// Package session reads command lines from a transport, dispatches them
// through an instrument's command table and writes the replies back.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"sdicode-go/bus"
	"sdicode-go/errcode"
	"sdicode-go/instrument"
	"sdicode-go/literal"
	"sdicode-go/store"
)

// ErrReboot is returned by Run after a reboot or factory command was
// acknowledged. The caller restarts the instrument.
var ErrReboot = errors.New("session: reboot requested")

// Transport is the byte-level link to the controlling host.
type Transport interface {
	ByteSource
	WriteBytes(p []byte, eol bool) error
}

// Hardware answers live readings such as trigger counts and input levels.
// ok is false when the reading is unavailable.
type Hardware interface {
	Probe(name string, ch int) (v uint64, ok bool)
}

// Network reports the addresses currently in use.
type Network interface {
	Address(field string) (ip [4]byte, ok bool)
}

// Logger is satisfied by *charmbracelet/log.Logger.
type Logger = store.Logger

// Config wires a session. Bus, Hardware, Network and Logger are optional.
type Config struct {
	Instrument *instrument.Instrument
	Store      *store.Store
	Bus        *bus.Connection
	Hardware   Hardware
	Network    Network
	Logger     Logger
	// Idle is the poll interval for transports that cannot signal input.
	Idle time.Duration
}

type Session struct {
	in   *instrument.Instrument
	st   *store.Store
	conn *bus.Connection
	hw   Hardware
	net  Network
	log  Logger
	idle time.Duration
	lr   LineReader
}

func New(cfg Config) *Session {
	s := &Session{
		in:   cfg.Instrument,
		st:   cfg.Store,
		conn: cfg.Bus,
		hw:   cfg.Hardware,
		net:  cfg.Network,
		log:  cfg.Logger,
		idle: cfg.Idle,
	}
	if s.log == nil {
		s.log = nopLogger{}
	}
	if s.idle <= 0 {
		s.idle = time.Millisecond
	}
	return s
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}

// readable is implemented by transports that can signal buffered input.
type readable interface {
	Readable() <-chan struct{}
}

// Run serves tr until ctx ends, the transport fails or a reboot is
// acknowledged (ErrReboot). Complete lines already buffered when ctx ends
// are still answered.
func (s *Session) Run(ctx context.Context, tr Transport) error {
	s.lr = LineReader{}
	s.Announce()
	var wake <-chan struct{}
	if r, ok := tr.(readable); ok {
		wake = r.Readable()
	}
	t := time.NewTimer(s.idle)
	defer t.Stop()

	for {
		line, ok := s.lr.Poll(tr)
		if !ok {
			if err := ctx.Err(); err != nil {
				if n := s.lr.Pending(); n > 0 {
					s.log.Debug("dropping partial line", "bytes", n)
				}
				return err
			}
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
			t.Reset(s.idle)
			select {
			case <-ctx.Done():
			case <-wake:
			case <-t.C:
			}
			continue
		}
		r := s.Execute(line)
		if r.Code == errcode.NoCommand {
			continue
		}
		if err := tr.WriteBytes([]byte(r.Text), true); err != nil {
			return err
		}
		if r.Reboot {
			return ErrReboot
		}
	}
}

// Execute runs one command line.
func (s *Session) Execute(line string) Reply {
	line = strings.TrimSpace(line)
	if line == "" {
		return Reply{Code: errcode.NoCommand}
	}
	header, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		header, arg = line[:i], strings.TrimSpace(line[i+1:])
	}

	cmd, hit, found := s.in.Lookup(header)
	if !found {
		s.log.Debug("unknown command", "header", header)
		return s.canned(errcode.UnknownKeyword)
	}
	ch := hit.Channel - 1

	switch cmd.Kind {
	case instrument.Setting:
		if hit.Query {
			return s.query(cmd, ch)
		}
		return s.set(cmd, ch, arg)
	case instrument.Probe:
		if !hit.Query {
			return s.canned(errcode.ReadOnlyField)
		}
		return s.probe(cmd, ch)
	case instrument.Network:
		if !hit.Query {
			return s.canned(errcode.ReadOnlyField)
		}
		return s.address(cmd.Name)
	}
	return s.builtin(cmd.Name, hit.Query)
}

// query reports the stored value, which for reboot-gated fields is the one
// the next boot will use.
func (s *Session) query(cmd instrument.Command, ch int) Reply {
	rec := s.st.Stored(cmd.Block)
	if rec == nil {
		return s.canned(errcode.NotApplicable)
	}
	text, err := rec.Format(cmd.Name, ch)
	if err != nil {
		return s.fail(err)
	}
	return ok(text)
}

func (s *Session) set(cmd instrument.Command, ch int, arg string) Reply {
	if arg == "" {
		return s.canned(errcode.MalformedLiteral)
	}
	out, err := s.st.Apply(cmd.Block, cmd.Name, ch, arg)
	if err != nil {
		return s.fail(err)
	}
	s.publish(out)
	if out.Status == errcode.RebootRequired {
		return s.canned(errcode.RebootRequired)
	}
	if out.Field.Check {
		if t := s.st.Reply(store.ReplyCheck); t != "" {
			return ok(t)
		}
	}
	return ok("OK")
}

func (s *Session) probe(cmd instrument.Command, ch int) Reply {
	if ch < 0 || ch >= cmd.Probe.Len() {
		return s.canned(errcode.UnknownKeyword)
	}
	if s.hw == nil {
		return s.canned(errcode.NotApplicable)
	}
	v, found := s.hw.Probe(cmd.Name, ch)
	if !found {
		return s.canned(errcode.NotApplicable)
	}
	return ok(cmd.Probe.Format(v))
}

// address reports an address in use. Without a network collaborator a
// static configuration is reported as configured; DHCP leases are unknown.
func (s *Session) address(field string) Reply {
	live := s.st.Live(store.LAN)
	if live == nil || live.Value(instrument.LANMode, 0) == instrument.LANOff {
		return s.canned(errcode.NotApplicable)
	}
	if s.net != nil {
		if ip, found := s.net.Address(field); found {
			return ok(literal.FormatIPv4(ip))
		}
		return s.canned(errcode.NotApplicable)
	}
	if live.Value(instrument.LANMode, 0) != instrument.LANStatic {
		return s.canned(errcode.NotApplicable)
	}
	return ok(literal.FormatIPv4(literal.UnpackIPv4(live.Value(field, 0))))
}

func (s *Session) builtin(name string, query bool) Reply {
	switch name {
	case instrument.CmdIDN, instrument.CmdStatus:
		if !query {
			return s.canned(errcode.UnknownKeyword)
		}
		text := s.st.IDN()
		if name == instrument.CmdStatus {
			text = s.st.Status()
		}
		if text == "" {
			return s.canned(errcode.NotApplicable)
		}
		return ok(text)
	case instrument.CmdTrigger:
		if query {
			return s.canned(errcode.UnknownKeyword)
		}
		s.announce(bus.T("system", "trigger"), struct{}{}, false)
		return ok("OK")
	case instrument.CmdReset, instrument.CmdRecall:
		if query {
			return s.canned(errcode.UnknownKeyword)
		}
		op := s.st.Reset
		if name == instrument.CmdRecall {
			op = s.st.Recall
		}
		if err := op(); err != nil {
			return s.fail(err)
		}
		s.Announce()
		return ok("OK")
	case instrument.CmdSave:
		// every accepted setting is already persisted
		if query {
			return s.canned(errcode.UnknownKeyword)
		}
		if s.st.State() == store.Rebooting {
			return s.canned(errcode.Rebooting)
		}
		return ok("OK")
	case instrument.CmdReboot, instrument.CmdFactory:
		if query {
			return s.canned(errcode.UnknownKeyword)
		}
		if name == instrument.CmdFactory {
			if err := s.st.Invalidate(); err != nil {
				return s.fail(err)
			}
		}
		if err := s.st.BeginReboot(); err != nil {
			return s.fail(err)
		}
		s.announce(bus.T("system", "reboot"), name, false)
		r := s.canned(errcode.Rebooting)
		if s.st.Reply(store.ReplyRebooting) == "" {
			r.Text = "OK: rebooting"
		}
		r.Code, r.Reboot = errcode.OK, true
		return r
	}
	return s.canned(errcode.UnknownKeyword)
}
