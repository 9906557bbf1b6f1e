// Package bench drives real pins from the simulator, so a node's LED can
// be watched on a Linux bench board.
package bench

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// outPin is the part of gpio.PinIO the LED needs.
type outPin interface {
	Out(l gpio.Level) error
}

// PinLED implements services.LED on a GPIO pin. Write errors are kept,
// not returned, since LED.Set cannot fail.
type PinLED struct {
	pin outPin
	err error
}

// OpenLED initializes periph.io and opens pin by name, e.g. "GPIO17".
func OpenLED(name string) (*PinLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to open LED pin %s", name)
	}
	led := &PinLED{pin: p}
	led.Set(false)
	return led, led.Err()
}

func (l *PinLED) Set(on bool) {
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := l.pin.Out(level); err != nil && l.err == nil {
		l.err = err
	}
}

// Err returns the first write error.
func (l *PinLED) Err() error {
	return l.err
}
