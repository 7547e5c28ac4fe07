package session

import (
	"sdicode-go/errcode"
	"sdicode-go/store"
)

// Reply is what one command line produced.
type Reply struct {
	Text string
	// Code is OK for plain successes and queries, NoCommand when nothing
	// should be written back.
	Code errcode.Code
	// Reboot asks the caller to restart once Text is sent.
	Reboot bool
}

func category(c errcode.Code) (store.Category, bool) {
	switch c {
	case errcode.UnknownKeyword:
		return store.ReplyInvalidCommand, true
	case errcode.MalformedLiteral, errcode.OutOfRange:
		return store.ReplyInvalidArgument, true
	case errcode.ReadOnlyField:
		return store.ReplyReadOnly, true
	case errcode.RebootRequired:
		return store.ReplyRebootRequired, true
	case errcode.Rebooting:
		return store.ReplyRebooting, true
	case errcode.NotApplicable:
		return store.ReplyNotApplicable, true
	}
	return 0, false
}

// canned renders c through its reply slot. Unprovisioned slots fall back to
// the code itself so a blank device still answers.
func (s *Session) canned(c errcode.Code) Reply {
	r := Reply{Code: c, Text: "ERROR: " + string(c)}
	if !c.Failure() {
		r.Text = "OK: " + string(c)
	}
	if cat, ok := category(c); ok {
		if t := s.st.Reply(cat); t != "" {
			r.Text = t
		}
	}
	return r
}

func (s *Session) fail(err error) Reply {
	code := errcode.Of(err)
	s.log.Debug("command failed", "err", err)
	return s.canned(code)
}

func ok(text string) Reply { return Reply{Text: text, Code: errcode.OK} }
