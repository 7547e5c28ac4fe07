// Package emulator stands in for instrument hardware on a host. It follows
// applied settings and triggers on the bus and answers live readings.
package emulator

import (
	"context"
	"sync"

	"sdicode-go/bus"
	"sdicode-go/instrument"
	"sdicode-go/session"
)

// InternalClock is the emulated pulsegen reference in Hz.
const InternalClock = 1_000_000

var (
	topicConfig  = bus.T("config", "#")
	topicTrigger = bus.T("system", "trigger")
	topicReboot  = bus.T("system", "reboot")
)

// Logger is satisfied by *charmbracelet/log.Logger.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
}

type key struct {
	name string
	ch   int // 0-based
}

type Service struct {
	instrument string
	log        Logger

	mu       sync.Mutex
	cfg      map[key]uint64
	triggers uint64
	counts   map[int]uint64
}

func New(instrument string, log Logger) *Service {
	return &Service{
		instrument: instrument,
		log:        log,
		cfg:        make(map[key]uint64),
		counts:     make(map[int]uint64),
	}
}

// Start follows the bus until ctx ends.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	cfg := conn.Subscribe(topicConfig)
	trig := conn.Subscribe(topicTrigger)
	reboot := conn.Subscribe(topicReboot)
	go s.serviceLoop(ctx, conn, cfg, trig, reboot)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfg, trig, reboot *bus.Subscription) {
	defer conn.Unsubscribe(cfg)
	defer conn.Unsubscribe(trig)
	defer conn.Unsubscribe(reboot)

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-cfg.Channel():
			s.applied(m)
		case <-trig.Channel():
			s.trigger()
		case m := <-reboot.Channel():
			if s.log != nil {
				s.log.Info("hardware reset", "cause", m.Payload)
			}
		}
	}
}

func (s *Service) applied(m *bus.Message) {
	if len(m.Topic) != 3 {
		return
	}
	name, _ := m.Topic[1].(string)
	ch, _ := m.Topic[2].(int)
	p, ok := m.Payload.(session.Setting)
	if name == "" || ch < 1 || !ok {
		return
	}
	s.mu.Lock()
	s.cfg[key{name, ch - 1}] = p.Value
	s.mu.Unlock()
	if s.log != nil {
		s.log.Debug("program", "field", name, "ch", ch, "value", p.Text)
	}
}

func (s *Service) trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers++
	for ch := 0; ch < instrument.DetectronChannels; ch++ {
		if s.cfg[key{"mode", ch}] != instrument.ModeOff {
			s.counts[ch]++
		}
	}
	if s.log != nil {
		s.log.Debug("trigger", "count", s.triggers)
	}
}

// Probe implements session.Hardware.
func (s *Service) Probe(name string, ch int) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	get := func(n string) uint64 { return s.cfg[key{n, ch}] }

	switch s.instrument + "/" + name {
	case "pulsegen/trig_count":
		return s.triggers, true
	case "pulsegen/trig_armed", "pulsegen/trig_ready":
		for c := 0; c < instrument.PulsegenChannels; c++ {
			if s.cfg[key{"valid", c}] == 1 && s.cfg[key{"cycles", c}] > 0 {
				return 1, true
			}
		}
		return 0, true
	case "pulsegen/clock_freq":
		if s.cfg[key{"clock_src", 0}] == 1 {
			return s.cfg[key{"clock_freq_ext", 0}], true
		}
		return InternalClock, true
	case "pulsegen/clock_freq_int":
		return InternalClock, true
	case "pulsegen/clock_freq_meas":
		// only an external clock is measured
		if s.cfg[key{"clock_src", 0}] == 1 {
			return s.cfg[key{"clock_freq_ext", 0}], true
		}
		return 0, false
	case "pulsegen/clock_edge":
		return 0, true // the timer counts rising clock edges
	case "slowdio/input":
		// a floating input reads its pull
		return get("pullup") ^ get("invert"), true
	case "slowdio/value":
		if get("dir") == instrument.DirOutput {
			return get("setval"), true
		}
		return get("pullup") ^ get("invert"), true
	case "detectron/count":
		return s.counts[ch], true
	case "detectron/value":
		return get("invert"), true
	}
	return 0, false
}
