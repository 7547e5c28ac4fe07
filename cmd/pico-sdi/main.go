//go:build rp2040

// Command pico-sdi is the RP2040 firmware: the command session on UART0 with
// settings kept in the AT24 EEPROM on I2C0.
package main

import (
	"context"
	"errors"
	"machine"
	"time"

	"sdicode-go/bus"
	"sdicode-go/instrument"
	"sdicode-go/nvm"
	"sdicode-go/services/provision"
	"sdicode-go/session"
	"sdicode-go/store"
	"sdicode-go/transport"
)

// Instrument is selected at link time: -ldflags "-X main.Instrument=slowdio".
var Instrument = "pulsegen"

const eepromSize = 4096 // AT24C32

type printLogger struct{ prefix string }

func (l printLogger) out(level string, msg any, kv []any) {
	print("[", l.prefix, "] ", level, " ")
	if s, ok := msg.(string); ok {
		print(s)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			print(" ", k, "=")
		}
		switch v := kv[i+1].(type) {
		case string:
			print(v)
		case int:
			print(v)
		case uint32:
			print(v)
		case uint64:
			print(v)
		case bool:
			print(v)
		default:
			print("?")
		}
	}
	println()
}

func (l printLogger) Debug(msg any, kv ...any) {}
func (l printLogger) Info(msg any, kv ...any)  { l.out("info", msg, kv) }
func (l printLogger) Warn(msg any, kv ...any)  { l.out("warn", msg, kv) }

func fail(what string, err error) {
	println("[main] FAIL:", what, err.Error())
	for {
		time.Sleep(time.Second)
	}
}

func main() {
	time.Sleep(2 * time.Second)
	log := printLogger{prefix: Instrument}

	prof, err := provision.Lookup(Instrument)
	if err != nil {
		fail("profile", err)
	}
	mac, _ := prof.HardwareAddr()
	in, ok := instrument.New(Instrument, instrument.Options{MAC: mac})
	if !ok {
		fail("instrument", errors.New("unknown "+Instrument))
	}

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SCL:       machine.I2C0_SCL_PIN,
		SDA:       machine.I2C0_SDA_PIN,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		fail("i2c", err)
	}
	st, err := store.Open(nvm.NewEEPROM(i2c, eepromSize), store.DefaultLayout(), in.Config, in.LAN, log)
	if err != nil {
		fail("layout", err)
	}
	if _, err := st.Boot(); err != nil {
		fail("boot", err)
	}
	if st.IDN() == "" {
		if err := provision.Apply(st, prof); err != nil {
			fail("provision", err)
		}
	}

	ctx := context.Background()
	tr, err := transport.OpenUART(ctx, transport.UARTConfig{
		ID:   0,
		Baud: 115200,
		TX:   machine.UART0_TX_PIN,
		RX:   machine.UART0_RX_PIN,
	})
	if err != nil {
		fail("uart", err)
	}

	b := bus.NewBus(8)
	mon := b.NewConnection("monitor").Subscribe(bus.T("#"))
	go func() {
		for m := range mon.Channel() {
			if p, ok := m.Payload.(session.Setting); ok {
				print("[bus] ")
				for i, tok := range m.Topic {
					if i > 0 {
						print("/")
					}
					switch v := tok.(type) {
					case string:
						print(v)
					case int:
						print(v)
					}
				}
				println(" =", p.Text)
			}
		}
	}()

	s := session.New(session.Config{Instrument: in, Store: st, Bus: b.NewConnection("session"), Logger: log})
	println("[main] ready")
	if err := s.Run(ctx, tr); errors.Is(err, session.ErrReboot) {
		time.Sleep(50 * time.Millisecond) // let the reply drain
		machine.CPUReset()
	} else if err != nil {
		fail("session", err)
	}
}
