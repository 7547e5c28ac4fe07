package store

import (
	"sort"

	"sdicode-go/errcode"
	"sdicode-go/x/strconvx"
)

// TextLen is the size of every text slot: 39 visible characters and a NUL.
const TextLen = 40

// MaxText is the longest storable text.
const MaxText = TextLen - 1

// Category keys a canned reply slot.
type Category uint8

const (
	ReplyReadOnly Category = iota
	ReplyInvalidCommand
	ReplyInvalidArgument
	ReplyRebootRequired
	ReplyRebooting
	ReplyNotApplicable
	ReplyCheck
	NumCategories
)

var categoryNames = [NumCategories]string{
	"read-only",
	"invalid-command",
	"invalid-argument",
	"reboot-required",
	"rebooting",
	"not-applicable",
	"check",
}

func (c Category) String() string {
	if c < NumCategories {
		return categoryNames[c]
	}
	return "category(" + strconvx.Itoa(int(c)) + ")"
}

// ParseCategory maps a provisioning key to its Category.
func ParseCategory(s string) (Category, bool) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Layout fixes the address of every persistent slot. Addresses must stay
// stable across firmware upgrades for devices in the field.
type Layout struct {
	Marker  int
	Config  int
	LAN     int
	IDN     int
	Replies [NumCategories]int
	Status  int
	Size    int
}

// DefaultLayout is the map shared by every instrument.
func DefaultLayout() Layout {
	return Layout{
		Marker: 0,
		Config: 4,
		LAN:    80,
		IDN:    100,
		Replies: [NumCategories]int{
			ReplyReadOnly:        140,
			ReplyInvalidCommand:  180,
			ReplyInvalidArgument: 220,
			ReplyRebootRequired:  260,
			ReplyRebooting:       300,
			ReplyNotApplicable:   340,
			ReplyCheck:           380,
		},
		Status: 420,
		Size:   460,
	}
}

type region struct {
	name     string
	off, len int
}

// check verifies that blocks of the given sizes fit without overlap.
func (l Layout) check(cfgSize, lanSize, memSize int) error {
	rs := []region{
		{"marker", l.Marker, 4},
		{"config", l.Config, cfgSize},
		{"lan", l.LAN, lanSize},
		{"idn", l.IDN, TextLen},
		{"status", l.Status, TextLen},
	}
	for c, off := range l.Replies {
		rs = append(rs, region{Category(c).String(), off, TextLen})
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].off < rs[j].off })
	var prev region
	for _, r := range rs {
		if r.len == 0 {
			continue
		}
		if r.off < 0 || r.off+r.len > l.Size {
			return errcode.New(errcode.LayoutOverlap, "layout", r.name+" outside layout")
		}
		if prev.len > 0 && prev.off+prev.len > r.off {
			return errcode.New(errcode.LayoutOverlap, "layout", prev.name+" overlaps "+r.name)
		}
		prev = r
	}
	if l.Size > memSize {
		return errcode.New(errcode.LayoutOverlap, "layout", "memory smaller than layout")
	}
	return nil
}
