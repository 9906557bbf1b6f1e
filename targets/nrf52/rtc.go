//go:build nrf52 || nrf52833 || nrf52840

package main

import (
	"device/nrf"

	"radiosoc/core"
)

// RTC2 is left to the substrate; TinyGo's runtime owns RTC1 and the
// SoftDevice owns RTC0.
var rtc = nrf.RTC2

// rtcCounter drives RTC2 with a zero prescaler (30.5us per tick).
type rtcCounter struct {
	cc [4]rtcCompare

	// RTC has no status register for the start task.
	ticking bool
}

func newRTCCounter() *rtcCounter {
	c := &rtcCounter{}
	for i := range c.cc {
		c.cc[i].index = uint32(i)
	}
	return c
}

func (c *rtcCounter) Ticks() core.OSTime {
	return core.OSTime(rtc.COUNTER.Get())
}

func (c *rtcCounter) IsOverflowEvent() bool {
	return rtc.EVENTS_OVRFLW.Get() != 0
}

func (c *rtcCounter) ClearOverflowEventAndWaitUntilClear() {
	rtc.EVENTS_OVRFLW.Set(0)
	// The write reaches the peripheral a few cycles later; without the
	// read back the IRQ retriggers on exit.
	for rtc.EVENTS_OVRFLW.Get() != 0 {
	}
}

func (c *rtcCounter) ConfigureOverflowInterrupt() {
	rtc.EVTENSET.Set(nrf.RTC_EVTENSET_OVRFLW)
	rtc.INTENSET.Set(nrf.RTC_INTENSET_OVRFLW)
}

func (c *rtcCounter) Start() {
	rtc.PRESCALER.Set(0)
	rtc.TASKS_START.Set(1)
	c.ticking = true
}

func (c *rtcCounter) Stop() {
	rtc.TASKS_STOP.Set(1)
	c.ticking = false
}

func (c *rtcCounter) IsTicking() bool {
	return c.ticking
}

func (c *rtcCounter) Compare(i int) core.CompareRegister {
	return &c.cc[i]
}

func (c *rtcCounter) CompareCount() int {
	return len(c.cc)
}

// rtcCompare is one CC register of RTC2.
type rtcCompare struct {
	index uint32
}

func (r *rtcCompare) Set(value core.OSTime) {
	rtc.CC[r.index].Set(uint32(value & core.CounterMask))
}

func (r *rtcCompare) EnableInterrupt() {
	rtc.EVTENSET.Set(nrf.RTC_EVTENSET_COMPARE0 << r.index)
	rtc.INTENSET.Set(nrf.RTC_INTENSET_COMPARE0 << r.index)
}

func (r *rtcCompare) DisableInterruptAndClearEvent() {
	rtc.INTENCLR.Set(nrf.RTC_INTENCLR_COMPARE0 << r.index)
	rtc.EVTENCLR.Set(nrf.RTC_EVTENCLR_COMPARE0 << r.index)
	rtc.EVENTS_COMPARE[r.index].Set(0)
	for rtc.EVENTS_COMPARE[r.index].Get() != 0 {
	}
}

func (r *rtcCompare) IsEvent() bool {
	return rtc.EVENTS_COMPARE[r.index].Get() != 0
}
