package nvm

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/at24cx"
)

// EEPROM is an AT24Cxx serial EEPROM on an I2C bus.
type EEPROM struct {
	dev  at24cx.Device
	size int
}

// NewEEPROM wraps an already configured bus. size is the part's capacity in
// bytes (4096 for an AT24C32).
func NewEEPROM(bus drivers.I2C, size int) *EEPROM {
	e := &EEPROM{dev: at24cx.New(bus), size: size}
	e.dev.Configure(at24cx.Config{EndRAMAddress: uint16(size)})
	return e
}

func (e *EEPROM) Size() int { return e.size }

func (e *EEPROM) ReadAt(p []byte, off int64) (int, error) {
	if !inBounds(e, len(p), off) {
		return 0, ErrBounds
	}
	return e.dev.ReadAt(p, off)
}

func (e *EEPROM) WriteAt(p []byte, off int64) (int, error) {
	if !inBounds(e, len(p), off) {
		return 0, ErrBounds
	}
	return e.dev.WriteAt(p, off)
}
