package instrument

import (
	"sdicode-go/model"
	"sdicode-go/store"
)

// DetectronChannels is the number of trigger inputs.
const DetectronChannels = 7

// Input modes; OFF is zero.
const (
	ModeOff uint64 = iota
	ModeRising
	ModeFalling
	ModeChange
)

func DetectronSchema() *model.Schema {
	const n = DetectronChannels
	return model.MustSchema("detectron", nil,
		model.Field{Name: "mode", Kind: model.Enum, Channels: n, Default: first(ModeRising, ModeOff),
			Enum: []model.Choice{
				{Name: "OFF", Value: ModeOff},
				{Name: "RISing", Value: ModeRising},
				{Name: "FALLing", Value: ModeFalling},
				{Name: "CHAnge", Value: ModeChange},
			}},
		model.Field{Name: "invert", Kind: model.Bool, Channels: n},
		model.Field{Name: "serial", Kind: model.Bool, Default: constant(1)},
		model.Field{Name: "udp", Kind: model.Bool},
		model.Field{Name: "udp_dest", Kind: model.IPv4, Default: constant(ip(192, 168, 0, 200))},
		model.Field{Name: "udp_port", Kind: model.Port, Default: constant(5000)},
	)
}

// Detectron is the trigger detector.
func Detectron(opts Options) *Instrument {
	cmds := append(common(),
		setting(":INput#:MODe", store.Config, "mode"),
		setting(":INput#:INVert", store.Config, "invert"),
		probe(":INput#:COUNt", "count", model.Count, DetectronChannels),
		probe(":INput#:VALue", "value", model.Bool, DetectronChannels),
		setting(":OUTput:SERial:ENable", store.Config, "serial"),
		setting(":OUTput:UDP:ENable", store.Config, "udp"),
		setting(":OUTput:UDP:DESTination", store.Config, "udp_dest"),
		setting(":OUTput:UDP:PORT", store.Config, "udp_port"),
	)
	return &Instrument{
		Name:     "detectron",
		Model:    "DETECTRON",
		Config:   DetectronSchema(),
		LAN:      LANSchema(macOr(opts, 3)),
		Commands: cmds,
	}
}
