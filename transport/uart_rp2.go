//go:build rp2040

package transport

import (
	"context"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// UARTConfig selects one of the RP2040 UARTs.
type UARTConfig struct {
	ID   int // 0 or 1
	Baud uint32
	TX   machine.Pin
	RX   machine.Pin
}

// OpenUART configures the UART and starts buffering its input.
func OpenUART(ctx context.Context, cfg UARTConfig) (*Stream, error) {
	hw := uartx.UART0
	if cfg.ID == 1 {
		hw = uartx.UART1
	}
	if err := hw.Configure(uartx.UARTConfig{BaudRate: cfg.Baud, TX: cfg.TX, RX: cfg.RX}); err != nil {
		return nil, err
	}
	return NewStream(ctx, hw, hw, nil), nil
}
