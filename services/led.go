package services

import (
	"errors"

	"radiosoc/core"
)

// LED is anything that lights. machine.Pin satisfies it.
type LED interface {
	Set(on bool)
}

const (
	// TicksPerFlashAmount is the shortest visible flash, about 0.6ms.
	TicksPerFlashAmount = 20

	MinFlashAmount = 1
	MaxFlashAmount = uint32(core.MaxTimeout-1) / TicksPerFlashAmount
)

var (
	ErrNoLED      = errors.New("no LED at ordinal")
	ErrFlashing   = errors.New("LED already flashing")
	ErrFlashRange = errors.New("flash amount below minimum")
)

// AmountInTicks converts an amount in minimum flashes to ticks, clamping
// at MaxFlashAmount.
func AmountInTicks(amount uint32) (core.OSTime, error) {
	if amount < MinFlashAmount {
		return 0, ErrFlashRange
	}
	if amount > MaxFlashAmount {
		amount = MaxFlashAmount
	}
	return core.OSTime(amount * TicksPerFlashAmount), nil
}

// LEDService switches LEDs by 1-based ordinal.
type LEDService struct {
	leds []LED
}

func NewLEDService(leds ...LED) *LEDService {
	return &LEDService{leds: leds}
}

func (s *LEDService) Count() int {
	return len(s.leds)
}

// SwitchLED turns LED ordinal on or off.
func (s *LEDService) SwitchLED(ordinal int, on bool) error {
	if ordinal < 1 || ordinal > len(s.leds) {
		return ErrNoLED
	}
	s.leds[ordinal-1].Set(on)
	return nil
}

// AllOff turns every LED off.
func (s *LEDService) AllOff() {
	for _, led := range s.leds {
		led.Set(false)
	}
}
