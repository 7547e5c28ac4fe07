//go:build !rp2040

package transport

import (
	"time"

	"github.com/tarm/serial"
)

// SerialConfig selects a host serial port.
type SerialConfig struct {
	Name string
	Baud int
	// ReadTimeout of zero blocks until data arrives.
	ReadTimeout time.Duration
}

// OpenSerial opens a host serial port (8N1).
func OpenSerial(cfg SerialConfig) (*Stream, error) {
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, err
	}
	return Open(p), nil
}
