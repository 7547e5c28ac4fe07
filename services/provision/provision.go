// Package provision loads the factory identity and canned reply texts that
// get written into an instrument's text slots.
package provision

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"sdicode-go/errcode"
	"sdicode-go/literal"
	"sdicode-go/store"
)

//go:embed profiles/*.yaml
var profiles embed.FS

var ErrUnknownFormat = errors.New("provision: unknown profile format")

// EmbeddedProfileLookup allows overriding how built-in profiles are resolved.
var EmbeddedProfileLookup = func(instrument string) ([]byte, bool) {
	b, err := profiles.ReadFile("profiles/" + instrument + ".yaml")
	return b, err == nil
}

// Profile is the provisioning data for one unit.
type Profile struct {
	IDN     string            `yaml:"idn" toml:"idn"`
	MAC     string            `yaml:"mac,omitempty" toml:"mac,omitempty"`
	Replies map[string]string `yaml:"replies" toml:"replies"`
}

// Lookup returns the embedded profile for an instrument.
func Lookup(instrument string) (*Profile, error) {
	raw, ok := EmbeddedProfileLookup(instrument)
	if !ok {
		return nil, fmt.Errorf("no embedded profile for %q", instrument)
	}
	return decode(raw, ".yaml")
}

// LoadFile reads a profile from a .yaml, .yml or .toml file.
func LoadFile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := decode(raw, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func decode(raw []byte, ext string) (*Profile, error) {
	var p Profile
	var err error
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &p)
	case ".toml":
		err = toml.Unmarshal(raw, &p)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Merge overlays the non-empty parts of o onto a copy of p.
func (p *Profile) Merge(o *Profile) *Profile {
	out := &Profile{IDN: p.IDN, MAC: p.MAC, Replies: make(map[string]string, len(p.Replies))}
	for k, v := range p.Replies {
		out.Replies[k] = v
	}
	if o == nil {
		return out
	}
	if o.IDN != "" {
		out.IDN = o.IDN
	}
	if o.MAC != "" {
		out.MAC = o.MAC
	}
	for k, v := range o.Replies {
		out.Replies[k] = v
	}
	return out
}

// Validate checks text lengths and category names and returns the replies
// keyed by slot.
func (p *Profile) Validate() (map[store.Category]string, error) {
	if len(p.IDN) > store.MaxText {
		return nil, errcode.New(errcode.OutOfRange, "provision", "idn longer than 39 characters")
	}
	if _, err := p.HardwareAddr(); err != nil {
		return nil, err
	}
	out := make(map[store.Category]string, len(p.Replies))
	for k, v := range p.Replies {
		c, ok := store.ParseCategory(k)
		if !ok {
			return nil, errcode.New(errcode.UnknownKeyword, "provision", "reply "+k)
		}
		if len(v) > store.MaxText {
			return nil, errcode.New(errcode.OutOfRange, "provision", "reply "+k+" longer than 39 characters")
		}
		out[c] = v
	}
	return out, nil
}

// HardwareAddr decodes MAC; the zero address means none was given.
func (p *Profile) HardwareAddr() ([6]byte, error) {
	if p.MAC == "" {
		return [6]byte{}, nil
	}
	mac, err := literal.ParseMAC(p.MAC)
	if err != nil {
		return mac, &errcode.E{C: errcode.Of(err), Op: "provision", Msg: "mac " + p.MAC}
	}
	return mac, nil
}

// Apply validates p and writes it into the store's text slots.
func Apply(s *store.Store, p *Profile) error {
	replies, err := p.Validate()
	if err != nil {
		return err
	}
	return s.Provision(p.IDN, replies)
}
