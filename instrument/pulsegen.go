package instrument

import (
	"sdicode-go/model"
	"sdicode-go/store"
)

// PulsegenChannels is the number of pulse outputs (A..D).
const PulsegenChannels = 4

// SequenceCeiling bounds delay + period·cycles for an armable channel.
const SequenceCeiling = 4_000_000_000 // µs

var (
	clockSources = []model.Choice{{Name: "INTernal", Value: 0}, {Name: "EXTernal", Value: 1}}
	edges        = []model.Choice{{Name: "RISing", Value: 0}, {Name: "FALLing", Value: 1}}
)

// PulsegenSchema is the four-channel pulse generator configuration.
func PulsegenSchema() *model.Schema {
	const n = PulsegenChannels
	return model.MustSchema("pulsegen", model.Budget("delay", "period", "cycles", SequenceCeiling),
		model.Field{Name: "clock_src", Kind: model.Enum, Enum: clockSources},
		model.Field{Name: "clock_freq_ext", Kind: model.Hertz, Max: 5_000_000, Default: constant(1_000_000)},
		model.Field{Name: "trig_edge", Kind: model.Enum, Enum: edges},
		model.Field{Name: "trig_rearm", Kind: model.Bool, Default: constant(1)},
		model.Field{Name: "delay", Kind: model.Micros, Channels: n, AllowZero: true, Check: true},
		model.Field{Name: "width", Kind: model.Micros, Channels: n, Check: true, Default: constant(10_000)},
		model.Field{Name: "period", Kind: model.Micros, Channels: n, Check: true, Default: constant(20_000)},
		model.Field{Name: "cycles", Kind: model.Count, Channels: n, AllowZero: true, Check: true, Default: first(1, 0)},
		model.Field{Name: "invert", Kind: model.Bool, Channels: n},
		model.Field{Name: "valid", Kind: model.Bool, Channels: n, Derive: model.ValidFlag},
	)
}

// Pulsegen is the pulse generator.
func Pulsegen(opts Options) *Instrument {
	cmds := append(common(),
		setting(":CLOCK:SRC", store.Config, "clock_src"),
		setting(":CLOCK:FREQuency:EXTernal", store.Config, "clock_freq_ext"),
		probe(":CLOCK:FREQuency", "clock_freq", model.Hertz, 0),
		probe(":CLOCK:FREQuency:INTernal", "clock_freq_int", model.Hertz, 0),
		probe(":CLOCK:FREQuency:MEASure", "clock_freq_meas", model.Hertz, 0),
		enumProbe(":CLOCK:EDGE", "clock_edge", edges),
		setting(":TRIGger:EDGE", store.Config, "trig_edge"),
		setting(":TRIGger:REARM", store.Config, "trig_rearm"),
		probe(":TRIGger:ARMed", "trig_armed", model.Bool, 0),
		probe(":TRIGger:READY", "trig_ready", model.Bool, 0),
		probe(":TRIGger:COUNt", "trig_count", model.Count, 0),
		setting(":PULSe#:DELay", store.Config, "delay"),
		setting(":PULSe#:WIDth", store.Config, "width"),
		setting(":PULSe#:PERiod", store.Config, "period"),
		setting(":PULSe#:CYCles", store.Config, "cycles"),
		setting(":PULSe#:INVert", store.Config, "invert"),
		setting(":PULSe#:VALid", store.Config, "valid"),
	)
	return &Instrument{
		Name:     "pulsegen",
		Model:    "PULSEGEN",
		Config:   PulsegenSchema(),
		LAN:      LANSchema(macOr(opts, 1)),
		Commands: cmds,
	}
}
