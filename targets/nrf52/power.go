//go:build nrf52 || nrf52833 || nrf52840

package main

import (
	"device/arm"
	"device/nrf"
	"unsafe"

	"radiosoc/power"
)

// pofComparator drives POWER.POFCON.
type pofComparator struct {
	threshold uint32
}

func pofThreshold(t power.Threshold) uint32 {
	switch t {
	case power.Threshold2_3:
		return nrf.POWER_POFCON_THRESHOLD_V23
	case power.Threshold2_5:
		return nrf.POWER_POFCON_THRESHOLD_V25
	case power.Threshold2_7:
		return nrf.POWER_POFCON_THRESHOLD_V27
	case power.Threshold2_8:
		return nrf.POWER_POFCON_THRESHOLD_V28
	}
	return nrf.POWER_POFCON_THRESHOLD_V21
}

func (c *pofComparator) SetThreshold(t power.Threshold) {
	c.threshold = pofThreshold(t) << nrf.POWER_POFCON_THRESHOLD_Pos
	pof := nrf.POWER.POFCON.Get() & nrf.POWER_POFCON_POF_Msk
	nrf.POWER.POFCON.Set(pof | c.threshold)
}

func (c *pofComparator) Enable() {
	nrf.POWER.POFCON.Set(c.threshold | nrf.POWER_POFCON_POF_Enabled<<nrf.POWER_POFCON_POF_Pos)
}

func (c *pofComparator) Disable() {
	nrf.POWER.POFCON.Set(c.threshold)
}

func (c *pofComparator) IsPOFEvent() bool {
	return nrf.POWER.EVENTS_POFWARN.Get() != 0
}

func (c *pofComparator) ClearPOFEvent() {
	nrf.POWER.EVENTS_POFWARN.Set(0)
}

func (c *pofComparator) EnableInterrupt() {
	nrf.POWER.INTENSET.Set(nrf.POWER_INTENSET_POFWARN)
}

func (c *pofComparator) DisableInterrupt() {
	nrf.POWER.INTENCLR.Set(nrf.POWER_INTENCLR_POFWARN)
}

func (c *pofComparator) IsInterruptEnabled() bool {
	return nrf.POWER.INTENSET.Get()&nrf.POWER_INTENSET_POFWARN != 0
}

// DelayForPOFEvent spins about 25us at 64MHz.
func (c *pofComparator) DelayForPOFEvent() {
	for i := 0; i < 400; i++ {
		arm.Asm("nop")
	}
}

// vddReader samples VDD on SAADC channel 0: gain 1/6 against the 0.6V
// reference gives a 3.6V range.
type vddReader struct{}

func (vddReader) MeasureMillivolts() uint32 {
	var value int16
	nrf.SAADC.RESOLUTION.Set(nrf.SAADC_RESOLUTION_VAL_12bit)
	nrf.SAADC.ENABLE.Set(nrf.SAADC_ENABLE_ENABLE_Enabled << nrf.SAADC_ENABLE_ENABLE_Pos)
	nrf.SAADC.CH[0].CONFIG.Set(((nrf.SAADC_CH_CONFIG_GAIN_Gain1_6 << nrf.SAADC_CH_CONFIG_GAIN_Pos) & nrf.SAADC_CH_CONFIG_GAIN_Msk) |
		((nrf.SAADC_CH_CONFIG_REFSEL_Internal << nrf.SAADC_CH_CONFIG_REFSEL_Pos) & nrf.SAADC_CH_CONFIG_REFSEL_Msk) |
		((nrf.SAADC_CH_CONFIG_TACQ_10us << nrf.SAADC_CH_CONFIG_TACQ_Pos) & nrf.SAADC_CH_CONFIG_TACQ_Msk))
	nrf.SAADC.CH[0].PSELN.Set(nrf.SAADC_CH_PSELN_PSELN_NC)
	nrf.SAADC.CH[0].PSELP.Set(nrf.SAADC_CH_PSELP_PSELP_VDD)
	nrf.SAADC.RESULT.PTR.Set(uint32(uintptr(unsafe.Pointer(&value))))
	nrf.SAADC.RESULT.MAXCNT.Set(1)

	nrf.SAADC.TASKS_START.Set(1)
	for nrf.SAADC.EVENTS_STARTED.Get() == 0 {
	}
	nrf.SAADC.EVENTS_STARTED.Set(0)
	nrf.SAADC.TASKS_SAMPLE.Set(1)
	for nrf.SAADC.EVENTS_END.Get() == 0 {
	}
	nrf.SAADC.EVENTS_END.Set(0)
	nrf.SAADC.TASKS_STOP.Set(1)
	for nrf.SAADC.EVENTS_STOPPED.Get() == 0 {
	}
	nrf.SAADC.EVENTS_STOPPED.Set(0)
	nrf.SAADC.ENABLE.Set(nrf.SAADC_ENABLE_ENABLE_Disabled << nrf.SAADC_ENABLE_ENABLE_Pos)

	if value < 0 {
		return 0
	}
	return uint32(value) * 3600 / 4096
}
