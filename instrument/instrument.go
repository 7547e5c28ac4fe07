// Package instrument declares the configuration schemas and command tables
// of the SDI instrument family.
package instrument

import (
	"sort"

	"sdicode-go/literal"
	"sdicode-go/model"
	"sdicode-go/scpi"
	"sdicode-go/store"
)

// Kind says how the session serves a command.
type Kind uint8

const (
	Setting Kind = iota // persisted field in Block
	Probe               // live hardware reading, query only
	Network             // live network address, query only
	Builtin             // common and system commands
)

// Builtin command names.
const (
	CmdIDN     = "idn"
	CmdTrigger = "trigger"
	CmdReboot  = "reboot"
	CmdFactory = "factory"
	CmdStatus  = "status"
	CmdReset   = "reset"
	CmdSave    = "save"
	CmdRecall  = "recall"
)

// Command maps a keyword path to what it reads or writes.
type Command struct {
	Path  scpi.Path
	Kind  Kind
	Block store.Block
	// Name is the field, probe, network item or builtin name.
	Name string
	// Probe describes the reading's kind and channel count for Probe commands.
	Probe *model.Field
}

// Instrument bundles everything that differs between variants.
type Instrument struct {
	Name     string
	Model    string
	Config   *model.Schema
	LAN      *model.Schema
	Commands []Command
}

// Lookup finds the command matching header.
func (in *Instrument) Lookup(header string) (Command, scpi.Hit, bool) {
	for _, c := range in.Commands {
		if h, ok := c.Path.Match(header); ok {
			return c, h, true
		}
	}
	return Command{}, scpi.Hit{}, false
}

// Options customise an instrument at construction.
type Options struct {
	// MAC is the factory LAN hardware address.
	MAC [6]byte
}

type constructor func(Options) *Instrument

var registry = map[string]constructor{
	"pulsegen":  Pulsegen,
	"slowdio":   SlowDIO,
	"detectron": Detectron,
}

// New builds the named instrument.
func New(name string, opts Options) (*Instrument, bool) {
	c, ok := registry[name]
	if !ok {
		return nil, false
	}
	return c(opts), true
}

// Names lists the known instruments.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func setting(path string, b store.Block, field string) Command {
	return Command{Path: scpi.ParsePath(path), Kind: Setting, Block: b, Name: field}
}

func probe(path, name string, kind model.Kind, channels int) Command {
	return Command{Path: scpi.ParsePath(path), Kind: Probe, Name: name,
		Probe: &model.Field{Name: name, Kind: kind, Channels: channels}}
}

func enumProbe(path, name string, choices []model.Choice) Command {
	c := probe(path, name, model.Enum, 0)
	c.Probe.Enum = choices
	return c
}

func builtin(path, name string) Command {
	return Command{Path: scpi.ParsePath(path), Kind: Builtin, Name: name}
}

func network(path, name string) Command {
	return Command{Path: scpi.ParsePath(path), Kind: Network, Name: name}
}

// common returns the commands every instrument shares.
func common() []Command {
	const lan = ":SYSTem:COMMunicate:LAN"
	return []Command{
		builtin("*IDN", CmdIDN),
		builtin("*TRG", CmdTrigger),
		builtin("*RST", CmdReset),
		builtin("*SAV", CmdSave),
		builtin("*RCL", CmdRecall),
		builtin(":SYSTem:REBoot", CmdReboot),
		builtin(":SYSTem:FACTory", CmdFactory),
		builtin(":SYSTem:STATus", CmdStatus),
		setting(lan+":MODe", store.LAN, LANMode),
		setting(lan+":MAC", store.LAN, LANMAC),
		setting(lan+":IP:STATic", store.LAN, LANIP),
		setting(lan+":GATEway:STATic", store.LAN, LANGateway),
		setting(lan+":SUBnet:STATic", store.LAN, LANSubnet),
		network(lan+":IP", LANIP),
		network(lan+":GATEway", LANGateway),
		network(lan+":SUBnet", LANSubnet),
	}
}

func constant(v uint64) func(int) uint64 { return func(int) uint64 { return v } }

func first(on, off uint64) func(int) uint64 {
	return func(ch int) uint64 {
		if ch == 0 {
			return on
		}
		return off
	}
}

func ip(a, b, c, d byte) uint64 { return literal.PackIPv4([4]byte{a, b, c, d}) }
