package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"sdicode-go/bus"
	"sdicode-go/services/emulator"
	"sdicode-go/session"
	"sdicode-go/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the instrument over TCP or a serial port",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for {
			err := serveOnce(cmd.Context())
			if !errors.Is(err, session.ErrReboot) {
				return err
			}
			logger.Info("rebooting")
		}
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("listen", "127.0.0.1:5025", "TCP address to accept clients on")
	f.String("serial", "", "serial device to serve instead of TCP")
	f.Int("baud", 115200, "serial baud rate")
}

// serveOnce runs one boot cycle. It returns session.ErrReboot when the
// instrument asked to restart.
func serveOnce(ctx context.Context) error {
	d, err := openDevice()
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.boot(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b := bus.NewBus(64)
	hw := emulator.New(d.in.Name, logger.WithPrefix("hw"))
	hw.Start(ctx, b.NewConnection("hw"))

	s := session.New(session.Config{
		Instrument: d.in,
		Store:      d.st,
		Bus:        b.NewConnection("session"),
		Hardware:   hw,
		Logger:     logger,
	})

	if cfg.Serial != "" {
		tr, err := transport.OpenSerial(transport.SerialConfig{Name: cfg.Serial, Baud: cfg.Baud})
		if err != nil {
			return err
		}
		defer tr.Close()
		logger.Info("serving", "instrument", d.in.Name, "serial", cfg.Serial, "baud", cfg.Baud)
		return s.Run(ctx, tr)
	}

	l, err := transport.Listen(cfg.Listen, logger)
	if err != nil {
		return err
	}
	defer l.Close()
	logger.Info("serving", "instrument", d.in.Name, "listen", l.Addr())
	return l.Serve(ctx, func(ctx context.Context, st *transport.Stream) error {
		return s.Run(ctx, st)
	})
}
