package serial

import (
	"fmt"

	"github.com/tarm/serial"
)

// uart is a Port on a tarm/serial port.
type uart struct {
	port *serial.Port
}

// Open opens cfg.Device for reading.
func Open(cfg *Config) (Port, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s at %d baud: %w", cfg.Device, cfg.Baud, err)
	}
	return &uart{port: port}, nil
}

func (u *uart) Read(b []byte) (int, error) { return u.port.Read(b) }

func (u *uart) Close() error { return u.port.Close() }

// Discard flushes the driver's receive buffer.
func (u *uart) Discard() error { return u.port.Flush() }
