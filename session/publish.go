package session

import (
	"sdicode-go/bus"
	"sdicode-go/store"
)

// Setting is the payload of config and lan topics.
type Setting struct {
	Value uint64
	Text  string
}

func (s *Session) announce(t bus.Topic, payload any, retained bool) {
	if s.conn == nil {
		return
	}
	s.conn.Publish(s.conn.NewMessage(t, payload, retained))
}

// publish announces an applied field: config/<field>/<ch> for settings that
// are live, lan/<field> for pending network settings.
func (s *Session) publish(out store.Outcome) {
	p := Setting{Value: out.Value, Text: out.Field.Format(out.Value)}
	if out.Block == store.LAN {
		s.announce(bus.T("lan", out.Field.Name), p, true)
		return
	}
	s.announce(bus.T("config", out.Field.Name, out.Channel+1), p, true)

	// derived fields may have changed with it
	rec := s.st.Live(store.Config)
	for _, f := range rec.Schema().Fields() {
		if f.Stored() || out.Channel >= f.Len() {
			continue
		}
		v := rec.Value(f.Name, out.Channel)
		s.announce(bus.T("config", f.Name, out.Channel+1), Setting{Value: v, Text: f.Format(v)}, true)
	}
}

// Announce publishes every live config value so subscribers start from the
// booted state.
func (s *Session) Announce() {
	rec := s.st.Live(store.Config)
	if s.conn == nil || rec == nil {
		return
	}
	for _, f := range rec.Schema().Fields() {
		for ch := 0; ch < f.Len(); ch++ {
			v := rec.Value(f.Name, ch)
			s.announce(bus.T("config", f.Name, ch+1), Setting{Value: v, Text: f.Format(v)}, true)
		}
	}
}
