//go:build nrf52 || nrf52833 || nrf52840

package main

import (
	"device/arm"
	"device/nrf"
	"runtime/interrupt"

	"radiosoc/core"
)

var system *core.System

// Vectors are bound at compile time, so the handlers reach the System
// through a package variable.
func installVectors(sys *core.System) {
	system = sys
	rtcIRQ = interrupt.New(nrf.IRQ_RTC2, func(interrupt.Interrupt) {
		system.RTCIRQHandler()
	})
	powerClockIRQ = interrupt.New(nrf.IRQ_POWER_CLOCK, func(interrupt.Interrupt) {
		system.PowerClockIRQHandler()
	})
	radioIRQ = interrupt.New(nrf.IRQ_RADIO, func(interrupt.Interrupt) {
		if nrf.RADIO.EVENTS_END.Get() != 0 {
			nrf.RADIO.EVENTS_END.Set(0)
			system.Sleeper.MsgReceivedCallback()
		}
	})
}

var rtcIRQ, powerClockIRQ, radioIRQ interrupt.Interrupt

func irqNumber(irq core.IRQ) uint32 {
	switch irq {
	case core.IRQTimer:
		return nrf.IRQ_RTC2
	case core.IRQPowerClock:
		return nrf.IRQ_POWER_CLOCK
	default:
		return nrf.IRQ_RADIO
	}
}

// nvic implements core.InterruptController and core.MCU.
type nvic struct{}

func (nvic) Enable(irq core.IRQ) {
	arm.EnableIRQ(irqNumber(irq))
}

func (nvic) Disable(irq core.IRQ) {
	arm.DisableIRQ(irqNumber(irq))
}

func (nvic) Pend(irq core.IRQ) {
	n := irqNumber(irq)
	arm.NVIC.ISPR[n>>5].Set(1 << (n & 31))
}

// WaitForEvent relies on SEVONPEND being clear: a pended but disabled
// interrupt does not wake, an enabled one does through its handler.
func (nvic) WaitForEvent() {
	arm.Asm("wfe")
}
