// Package store persists an instrument's configuration and LAN blocks,
// generates defaults behind a commit marker, and runs the reboot reply
// protocol over fixed text slots.
package store

import (
	"encoding/binary"
	"math/bits"

	"sdicode-go/errcode"
	"sdicode-go/model"
)

// Logger is satisfied by *charmbracelet/log.Logger.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}

// State of the reboot reply protocol.
type State uint8

const (
	Uninitialized State = iota
	Ready
	RebootPending
	Rebooting
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case RebootPending:
		return "reboot-pending"
	case Rebooting:
		return "rebooting"
	}
	return "unknown"
}

// Block selects one of the persisted records.
type Block uint8

const (
	Config Block = iota
	LAN
)

func (b Block) String() string {
	if b == LAN {
		return "lan"
	}
	return "config"
}

// Memory is the non-volatile backend (see package nvm).
type Memory interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Size() int
}

// markerBase tags images written by this firmware family.
const markerBase = 0x5D10000

// Store owns the persistent layout. It is used from a single goroutine.
type Store struct {
	mem   Memory
	lay   Layout
	log   Logger
	state State

	schema [2]*model.Schema
	live   [2]*model.Record // what the running instrument uses
	stored [2]*model.Record // what the next boot will load
}

// Open checks the layout against the schemas. lan may be nil for
// instruments without a network interface.
func Open(mem Memory, lay Layout, cfg, lan *model.Schema, log Logger) (*Store, error) {
	if log == nil {
		log = nopLogger{}
	}
	lanSize := 0
	if lan != nil {
		lanSize = lan.Size()
	}
	if err := lay.check(cfg.Size(), lanSize, mem.Size()); err != nil {
		return nil, err
	}
	return &Store{mem: mem, lay: lay, log: log, schema: [2]*model.Schema{cfg, lan}}, nil
}

// Marker is the commit marker value this firmware expects.
func (s *Store) Marker() uint32 {
	m := uint32(markerBase) ^ s.schema[Config].Signature()
	if s.schema[LAN] != nil {
		m ^= bits.RotateLeft32(s.schema[LAN].Signature(), 16)
	}
	return m
}

func (s *Store) State() State { return s.state }

// BootReport describes what Boot found.
type BootReport struct {
	Regenerated bool
	Reason      string
	Found       uint32
}

// Boot loads both blocks. A marker mismatch or a corrupt block regenerates
// defaults and rewrites the marker, the marker last.
func (s *Store) Boot() (BootReport, error) {
	s.state = Uninitialized
	var rep BootReport

	var mk [4]byte
	if _, err := s.mem.ReadAt(mk[:], int64(s.lay.Marker)); err != nil {
		return rep, &errcode.E{C: errcode.Error, Op: "boot", Msg: "read marker", Err: err}
	}
	rep.Found = binary.LittleEndian.Uint32(mk[:])

	if rep.Found != s.Marker() {
		rep.Regenerated, rep.Reason = true, errcode.PersistenceUninitialized.Error()
	} else {
		for _, b := range []Block{Config, LAN} {
			if s.schema[b] == nil {
				continue
			}
			rec, err := s.load(b)
			if err != nil {
				if !errcode.Is(err, errcode.CorruptBlock) {
					return rep, err
				}
				rep.Regenerated, rep.Reason = true, err.Error()
				break
			}
			s.stored[b] = rec
		}
	}

	if rep.Regenerated {
		s.log.Warn("regenerating defaults", "reason", rep.Reason, "found", rep.Found, "want", s.Marker())
		if err := s.regenerate(); err != nil {
			return rep, err
		}
	}
	for b := range s.schema {
		if s.schema[b] != nil {
			s.live[b] = s.stored[b].Clone()
		}
	}
	s.state = Ready
	s.log.Info("store ready", "marker", s.Marker(), "regenerated", rep.Regenerated)
	return rep, nil
}

func (s *Store) base(b Block) int64 {
	if b == LAN {
		return int64(s.lay.LAN)
	}
	return int64(s.lay.Config)
}

func (s *Store) load(b Block) (*model.Record, error) {
	buf := make([]byte, s.schema[b].Size())
	if _, err := s.mem.ReadAt(buf, s.base(b)); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "boot", Msg: "read " + b.String(), Err: err}
	}
	return s.schema[b].Decode(buf)
}

func (s *Store) writeDefaults(op string, b Block) error {
	rec := s.schema[b].Defaults()
	if _, err := s.mem.WriteAt(rec.Bytes(), s.base(b)); err != nil {
		return &errcode.E{C: errcode.Error, Op: op, Msg: b.String(), Err: err}
	}
	s.stored[b] = rec
	return nil
}

func (s *Store) regenerate() error {
	for _, b := range []Block{Config, LAN} {
		if s.schema[b] == nil {
			continue
		}
		if err := s.writeDefaults("regenerate", b); err != nil {
			return err
		}
	}
	var mk [4]byte
	binary.LittleEndian.PutUint32(mk[:], s.Marker())
	if _, err := s.mem.WriteAt(mk[:], int64(s.lay.Marker)); err != nil {
		return &errcode.E{C: errcode.Error, Op: "regenerate", Msg: "marker", Err: err}
	}
	return nil
}

// Invalidate erases the commit marker so the next Boot regenerates defaults.
func (s *Store) Invalidate() error {
	mk := [4]byte{0xFF, 0xFF, 0xFF, 0xFF}
	if _, err := s.mem.WriteAt(mk[:], int64(s.lay.Marker)); err != nil {
		return &errcode.E{C: errcode.Error, Op: "invalidate", Err: err}
	}
	return nil
}

// Reset writes configuration defaults to memory and the live record. The
// marker and the LAN block are left alone.
func (s *Store) Reset() error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.writeDefaults("reset", Config); err != nil {
		return err
	}
	s.live[Config] = s.stored[Config].Clone()
	s.log.Info("configuration reset")
	return nil
}

// Recall reloads the configuration block from memory into the live record.
func (s *Store) Recall() error {
	if err := s.ready(); err != nil {
		return err
	}
	rec, err := s.load(Config)
	if err != nil {
		return err
	}
	s.stored[Config] = rec
	s.live[Config] = rec.Clone()
	s.log.Debug("configuration recalled")
	return nil
}

func (s *Store) ready() error {
	switch s.state {
	case Uninitialized:
		return errcode.PersistenceUninitialized
	case Rebooting:
		return errcode.Rebooting
	}
	return nil
}

// Outcome describes an applied field.
type Outcome struct {
	Block   Block
	Field   *model.Field
	Channel int // 0-based
	Value   uint64
	Span    model.Span
	// Status is OK, or RebootRequired for a reboot-gated field.
	Status errcode.Code
	// Reply is the reboot-required template when Status says so.
	Reply string
}

// Apply validates text for one field and persists exactly that field's
// bytes. Reboot-gated fields leave the live record untouched.
func (s *Store) Apply(b Block, name string, ch int, text string) (Outcome, error) {
	if err := s.ready(); err != nil {
		return Outcome{}, err
	}
	if s.schema[b] == nil {
		return Outcome{}, errcode.New(errcode.UnknownKeyword, "apply", b.String())
	}

	trial := s.stored[b].Clone()
	sp, err := trial.Set(name, ch, text)
	if err != nil {
		return Outcome{}, err
	}
	raw := trial.Bytes()
	if _, err := s.mem.WriteAt(raw[sp.Off:sp.Off+sp.Len], s.base(b)+int64(sp.Off)); err != nil {
		return Outcome{}, &errcode.E{C: errcode.Error, Op: "apply", Msg: name, Err: err}
	}
	s.stored[b] = trial

	f := s.schema[b].Field(name)
	out := Outcome{Block: b, Field: f, Channel: ch, Value: trial.Value(name, ch), Span: sp, Status: errcode.OK}
	if !f.RebootGated {
		if _, err := s.live[b].Apply(name, ch, out.Value); err != nil {
			return Outcome{}, err
		}
		s.log.Debug("applied", "block", b, "field", name, "ch", ch, "value", out.Value)
		return out, nil
	}

	out.Status = errcode.RebootRequired
	out.Reply = s.Reply(ReplyRebootRequired)
	if err := s.writeText(s.lay.Status, out.Reply); err != nil {
		return out, err
	}
	s.state = RebootPending
	s.log.Info("reboot required", "block", b, "field", name)
	return out, nil
}

// BeginReboot persists the rebooting template into the status slot. It
// returns only after the write completed; the caller resets afterwards.
func (s *Store) BeginReboot() error {
	if err := s.writeText(s.lay.Status, s.Reply(ReplyRebooting)); err != nil {
		return err
	}
	s.state = Rebooting
	s.log.Info("rebooting")
	return nil
}

// Live is the record the running instrument acts on.
func (s *Store) Live(b Block) *model.Record { return s.live[b] }

// Stored is the record the next boot will load.
func (s *Store) Stored(b Block) *model.Record { return s.stored[b] }

// Schema returns the block's schema, nil when the instrument lacks it.
func (s *Store) Schema(b Block) *model.Schema { return s.schema[b] }

// Reply returns the canned template for c verbatim.
func (s *Store) Reply(c Category) string {
	if c >= NumCategories {
		return ""
	}
	return s.readText(s.lay.Replies[c])
}

// Status returns the active status slot.
func (s *Store) Status() string { return s.readText(s.lay.Status) }

// IDN returns the identification string.
func (s *Store) IDN() string { return s.readText(s.lay.IDN) }

// Provision writes the identification string and any given templates.
// Every text is checked before anything is written.
func (s *Store) Provision(idn string, replies map[Category]string) error {
	if len(idn) > MaxText {
		return errcode.New(errcode.OutOfRange, "provision", "idn too long")
	}
	for c, text := range replies {
		if c >= NumCategories {
			return errcode.New(errcode.UnknownKeyword, "provision", c.String())
		}
		if len(text) > MaxText {
			return errcode.New(errcode.OutOfRange, "provision", c.String()+" too long")
		}
	}
	if err := s.writeText(s.lay.IDN, idn); err != nil {
		return err
	}
	for c := Category(0); c < NumCategories; c++ {
		if text, ok := replies[c]; ok {
			if err := s.writeText(s.lay.Replies[c], text); err != nil {
				return err
			}
		}
	}
	return nil
}

// readText reads a slot up to its NUL; an erased cell also terminates.
func (s *Store) readText(addr int) string {
	var buf [TextLen]byte
	if _, err := s.mem.ReadAt(buf[:], int64(addr)); err != nil {
		return ""
	}
	n := 0
	for n < MaxText && buf[n] != 0 && buf[n] != 0xFF {
		n++
	}
	return string(buf[:n])
}

func (s *Store) writeText(addr int, text string) error {
	if len(text) > MaxText {
		text = text[:MaxText]
	}
	var buf [TextLen]byte
	copy(buf[:], text)
	if _, err := s.mem.WriteAt(buf[:], int64(addr)); err != nil {
		return &errcode.E{C: errcode.Error, Op: "write text", Err: err}
	}
	return nil
}
