package instrument

import (
	"sdicode-go/literal"
	"sdicode-go/model"
)

// LAN field names.
const (
	LANMode    = "mode"
	LANMAC     = "mac"
	LANIP      = "ip"
	LANGateway = "gateway"
	LANSubnet  = "subnet"
)

// LAN modes.
const (
	LANOff uint64 = iota
	LANDHCP
	LANStatic
)

// LANSchema is the network block. Every field only takes effect after a
// reboot.
func LANSchema(mac [6]byte) *model.Schema {
	return model.MustSchema("lan", nil,
		model.Field{Name: LANMode, Kind: model.Enum, RebootGated: true, Default: constant(LANDHCP),
			Enum: []model.Choice{{Name: "OFF", Value: LANOff}, {Name: "DHCP", Value: LANDHCP}, {Name: "STATic", Value: LANStatic}}},
		model.Field{Name: LANMAC, Kind: model.MAC, RebootGated: true, Default: constant(literal.PackMAC(mac))},
		model.Field{Name: LANIP, Kind: model.IPv4, RebootGated: true, Default: constant(ip(192, 168, 0, 100))},
		model.Field{Name: LANGateway, Kind: model.IPv4, RebootGated: true, Default: constant(ip(192, 168, 0, 1))},
		model.Field{Name: LANSubnet, Kind: model.IPv4, RebootGated: true, Default: constant(ip(255, 255, 255, 0))},
	)
}

// DefaultMAC is a locally administered address ending in id.
func DefaultMAC(id byte) [6]byte { return [6]byte{0x02, 'S', 'D', 'I', 0x00, id} }

func macOr(opts Options, id byte) [6]byte {
	if opts.MAC == ([6]byte{}) {
		return DefaultMAC(id)
	}
	return opts.MAC
}
