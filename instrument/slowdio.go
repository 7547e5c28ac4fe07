package instrument

import (
	"sdicode-go/model"
	"sdicode-go/store"
)

// SlowDIOChannels is the number of digital lines (A..G).
const SlowDIOChannels = 7

// Line directions.
const (
	DirInput uint64 = iota
	DirOutput
)

func SlowDIOSchema() *model.Schema {
	const n = SlowDIOChannels
	return model.MustSchema("slowdio", nil,
		model.Field{Name: "dir", Kind: model.Enum, Channels: n,
			Enum: []model.Choice{{Name: "INput", Value: DirInput}, {Name: "OUTput", Value: DirOutput}}},
		model.Field{Name: "invert", Kind: model.Bool, Channels: n},
		model.Field{Name: "pullup", Kind: model.Bool, Channels: n, Default: constant(1)},
		model.Field{Name: "setval", Kind: model.Bool, Channels: n},
	)
}

// SlowDIO is the seven-line digital I/O module.
func SlowDIO(opts Options) *Instrument {
	cmds := append(common(),
		setting(":DIO#:DIRection", store.Config, "dir"),
		setting(":DIO#:INVert", store.Config, "invert"),
		setting(":DIO#:INput:PULLup", store.Config, "pullup"),
		setting(":DIO#:OUTput:VALue", store.Config, "setval"),
		probe(":DIO#:INput:VALue", "input", model.Bool, SlowDIOChannels),
		probe(":DIO#:VALue", "value", model.Bool, SlowDIOChannels),
	)
	return &Instrument{
		Name:     "slowdio",
		Model:    "SLOWDIO",
		Config:   SlowDIOSchema(),
		LAN:      LANSchema(macOr(opts, 2)),
		Commands: cmds,
	}
}
