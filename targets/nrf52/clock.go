//go:build nrf52 || nrf52833 || nrf52840

package main

import "device/nrf"

type lfClock struct{}

func (lfClock) ConfigureXtalSource() {
	nrf.CLOCK.LFCLKSRC.Set(nrf.CLOCK_LFCLKSRC_SRC_Xtal << nrf.CLOCK_LFCLKSRC_SRC_Pos)
}

func (lfClock) Start() {
	nrf.CLOCK.TASKS_LFCLKSTART.Set(1)
}

// IsStarted reports whether the start task was triggered.
func (lfClock) IsStarted() bool {
	return nrf.CLOCK.LFCLKRUN.Get()&nrf.CLOCK_LFCLKRUN_STATUS_Msk != 0
}

// IsRunning reports whether the crystal is stable.
func (lfClock) IsRunning() bool {
	stat := nrf.CLOCK.LFCLKSTAT.Get()
	return stat&nrf.CLOCK_LFCLKSTAT_STATE_Msk != 0 &&
		(stat&nrf.CLOCK_LFCLKSTAT_SRC_Msk)>>nrf.CLOCK_LFCLKSTAT_SRC_Pos == nrf.CLOCK_LFCLKSTAT_SRC_Xtal
}

func (lfClock) IsStartedEvent() bool {
	return nrf.CLOCK.EVENTS_LFCLKSTARTED.Get() != 0
}

func (lfClock) EnableInterruptOnStarted() {
	nrf.CLOCK.INTENSET.Set(nrf.CLOCK_INTENSET_LFCLKSTARTED)
}

func (lfClock) DisableInterruptOnStarted() {
	nrf.CLOCK.INTENCLR.Set(nrf.CLOCK_INTENCLR_LFCLKSTARTED)
}

func (lfClock) IsInterruptEnabledOnStarted() bool {
	return nrf.CLOCK.INTENSET.Get()&nrf.CLOCK_INTENSET_LFCLKSTARTED != 0
}

type hfClock struct{}

func (hfClock) Start() {
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
}

// IsRunning reports whether the crystal, not the RC oscillator, clocks
// the chip.
func (hfClock) IsRunning() bool {
	stat := nrf.CLOCK.HFCLKSTAT.Get()
	return stat&nrf.CLOCK_HFCLKSTAT_STATE_Msk != 0 &&
		stat&nrf.CLOCK_HFCLKSTAT_SRC_Msk != 0
}

func (hfClock) IsStartedEvent() bool {
	return nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() != 0
}

func (hfClock) ClearStartedEvent() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() != 0 {
	}
}

func (hfClock) EnableInterruptOnRunning() {
	nrf.CLOCK.INTENSET.Set(nrf.CLOCK_INTENSET_HFCLKSTARTED)
}

func (hfClock) DisableInterruptOnRunning() {
	nrf.CLOCK.INTENCLR.Set(nrf.CLOCK_INTENCLR_HFCLKSTARTED)
}

func (hfClock) IsInterruptEnabledForRunning() bool {
	return nrf.CLOCK.INTENSET.Get()&nrf.CLOCK_INTENSET_HFCLKSTARTED != 0
}
