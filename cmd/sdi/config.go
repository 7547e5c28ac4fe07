package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sdicode-go/instrument"
	"sdicode-go/nvm"
	"sdicode-go/services/provision"
	"sdicode-go/store"
)

// imageSize covers the layout with room to spare, like the 512-byte
// EEPROM page budget on the boards.
const imageSize = 512

type config struct {
	Instrument string
	Image      string
	Profile    string
	LogLevel   string
	Listen     string
	Serial     string
	Baud       int
}

var (
	cfg    config
	logger *log.Logger
)

func loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetDefault("instrument", "pulsegen")
	v.SetDefault("log-level", "info")
	v.SetDefault("listen", "127.0.0.1:5025")
	v.SetDefault("baud", 115200)

	v.SetEnvPrefix("SDI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sdi")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg = config{
		Instrument: v.GetString("instrument"),
		Image:      v.GetString("image"),
		Profile:    v.GetString("profile"),
		LogLevel:   v.GetString("log-level"),
		Listen:     v.GetString("listen"),
		Serial:     v.GetString("serial"),
		Baud:       v.GetInt("baud"),
	}
	if cfg.Image == "" {
		cfg.Image = "sdi-" + cfg.Instrument + ".img"
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "sdi", ReportTimestamp: true})
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// device is an instrument bound to its image file.
type device struct {
	in      *instrument.Instrument
	profile *provision.Profile
	mem     *nvm.File
	st      *store.Store
}

func openDevice() (*device, error) {
	prof, err := provision.Lookup(cfg.Instrument)
	if err != nil {
		return nil, fmt.Errorf("unknown instrument %q (have %s)", cfg.Instrument, strings.Join(instrument.Names(), ", "))
	}
	if cfg.Profile != "" {
		over, err := provision.LoadFile(cfg.Profile)
		if err != nil {
			return nil, err
		}
		prof = prof.Merge(over)
	}
	mac, err := prof.HardwareAddr()
	if err != nil {
		return nil, err
	}
	in, _ := instrument.New(cfg.Instrument, instrument.Options{MAC: mac})

	mem, err := nvm.OpenFile(cfg.Image, imageSize)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(mem, store.DefaultLayout(), in.Config, in.LAN, logger.WithPrefix(in.Name))
	if err != nil {
		mem.Close()
		return nil, err
	}
	return &device{in: in, profile: prof, mem: mem, st: st}, nil
}

// boot loads the image and provisions a blank one from the profile.
func (d *device) boot() error {
	rep, err := d.st.Boot()
	if err != nil {
		return err
	}
	if rep.Regenerated {
		logger.Warn("defaults written", "image", cfg.Image, "reason", rep.Reason)
	}
	if d.st.IDN() == "" {
		logger.Info("provisioning blank image", "idn", d.profile.IDN)
		return provision.Apply(d.st, d.profile)
	}
	return nil
}

func (d *device) Close() error { return d.mem.Close() }
