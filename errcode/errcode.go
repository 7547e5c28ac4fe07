package errcode

// Code is a stable, reply-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Command application.
	MalformedLiteral Code = "malformed_literal"
	OutOfRange       Code = "out_of_range"
	ReadOnlyField    Code = "read_only_field"
	UnknownKeyword   Code = "unknown_keyword"
	NotApplicable    Code = "not_applicable"
	NoCommand        Code = "no_command"

	// Persistence and reboot protocol.
	PersistenceUninitialized Code = "persistence_uninitialized"
	RebootRequired           Code = "reboot_required" // deferred success, not a failure
	Rebooting                Code = "rebooting"
	CorruptBlock             Code = "corrupt_block"
	LayoutOverlap            Code = "layout_overlap"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New builds an *E without a cause.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return Of(u.Unwrap())
	}
	return Error
}

// Is reports whether err carries code c.
func Is(err error, c Code) bool { return Of(err) == c }

// Failure reports whether the code denotes a rejected command.
// RebootRequired is a deferred success and does not count.
func (c Code) Failure() bool {
	switch c {
	case OK, RebootRequired:
		return false
	}
	return true
}
