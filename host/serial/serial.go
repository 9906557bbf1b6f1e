// Package serial opens the UART a radiosoc node writes its log to. The link
// is one-way: the node never reads, so a Port only receives.
package serial

import (
	"errors"
	"io"
	"time"
)

// LogBaud is the rate the node firmware configures machine.Serial with.
const LogBaud = 115200

var (
	ErrNoDevice = errors.New("serial: no device given")
	ErrBadBaud  = errors.New("serial: baud rate must be positive")
)

// Port is the receive side of a node's UART.
type Port interface {
	io.ReadCloser

	// Discard drops bytes already buffered by the OS, which usually end in
	// the middle of a line.
	Discard() error
}

// Config selects the device and line settings.
type Config struct {
	Device string // e.g. /dev/ttyACM0
	Baud   int

	// ReadTimeout bounds a Read; zero blocks until a byte arrives.
	ReadTimeout time.Duration
}

// DefaultConfig returns a blocking reader at LogBaud.
func DefaultConfig(device string) *Config {
	return &Config{Device: device, Baud: LogBaud}
}

func (c *Config) validate() error {
	switch {
	case c == nil || c.Device == "":
		return ErrNoDevice
	case c.Baud <= 0:
		return ErrBadBaud
	}
	return nil
}
