package services

import "radiosoc/core"

// LEDFlasher flashes one LED at a time using the second timer, which it
// owns exclusively.
type LEDFlasher struct {
	leds   *LEDService
	timers *core.TimerPool

	// Read by the on callback of a scheduled flash.
	ordinal int
	amount  uint32
	lit     int
}

func NewLEDFlasher(leds *LEDService, timers *core.TimerPool) *LEDFlasher {
	return &LEDFlasher{leds: leds, timers: timers}
}

// FlashMinimumVisible gives the shortest visible flash.
func (f *LEDFlasher) FlashMinimumVisible(ordinal int) error {
	return f.FlashByAmount(ordinal, MinFlashAmount)
}

// FlashByAmount lights LED ordinal for amount minimum flashes. A flash in
// progress is not disturbed and ErrFlashing is returned.
func (f *LEDFlasher) FlashByAmount(ordinal int, amount uint32) error {
	if f.timers.IsStarted(core.SecondTimer) {
		return ErrFlashing
	}
	ticks, err := AmountInTicks(amount)
	if err != nil {
		return err
	}
	if err := f.leds.SwitchLED(ordinal, true); err != nil {
		return err
	}
	f.lit = ordinal
	return f.timers.Start(core.SecondTimer, ticks, core.TimerCallbackFunc(f.off))
}

// ScheduleFlashByAmount starts the flash after delay ticks.
func (f *LEDFlasher) ScheduleFlashByAmount(ordinal int, amount uint32, delay core.OSTime) error {
	if f.timers.IsStarted(core.SecondTimer) {
		return ErrFlashing
	}
	f.ordinal = ordinal
	f.amount = amount
	return f.timers.Start(core.SecondTimer, delay, core.TimerCallbackFunc(f.on))
}

// IsFlashing reports whether the second timer is busy with a flash.
func (f *LEDFlasher) IsFlashing() bool {
	return f.timers.IsStarted(core.SecondTimer)
}

func (f *LEDFlasher) off(reason core.TimerInterruptReason) {
	f.leds.SwitchLED(f.lit, false)
}

func (f *LEDFlasher) on(reason core.TimerInterruptReason) {
	// The timer delivered its callback and is free again.
	f.FlashByAmount(f.ordinal, f.amount)
}
