package power

import "radiosoc/core"

// WarningSink is told of a brownout. core.Sleeper implements it.
type WarningSink interface {
	BrownoutWarning()
}

// Monitor owns the comparator. Measurements temporarily take it away from
// brownout detection and hand it back afterwards.
type Monitor struct {
	cmp      Comparator
	sink     WarningSink
	recorder *BrownoutRecorder
	log      core.Logger

	detectMode bool
	warnings   int
}

// NewMonitor returns a Monitor. sink and recorder may be nil.
func NewMonitor(cmp Comparator, sink WarningSink, recorder *BrownoutRecorder, log core.Logger) *Monitor {
	if log == nil {
		log = core.NopLogger()
	}
	return &Monitor{cmp: cmp, sink: sink, recorder: recorder, log: log}
}

// EnterBrownoutDetectMode arms brownout detection. It takes effect on the
// next IsVddGreaterThanThreshold that finds Vdd above the threshold asked
// about.
func (m *Monitor) EnterBrownoutDetectMode() {
	m.detectMode = true
}

// DisableBrownoutDetection stops detection until the next measurement.
// Detect mode itself is kept.
func (m *Monitor) DisableBrownoutDetection() {
	m.cmp.DisableInterrupt()
	m.cmp.Disable()
}

// IsVddGreaterThanThreshold measures Vdd. In detect mode, detection is
// resumed afterwards only if Vdd was above t; thresholds are never below
// BrownoutThreshold, so this gives the warning hysteresis instead of a
// stream of interrupts while the supply sags.
func (m *Monitor) IsVddGreaterThanThreshold(t Threshold) bool {
	m.cmp.DisableInterrupt()
	m.cmp.SetThreshold(t)
	above := m.testThenDisable()
	if above && m.detectMode {
		m.enableDetection()
	}
	return above
}

// testThenDisable leaves the comparator disabled with its event clear.
func (m *Monitor) testThenDisable() bool {
	m.cmp.ClearPOFEvent()
	m.cmp.Enable()
	m.cmp.DelayForPOFEvent()
	above := !m.cmp.IsPOFEvent()
	m.cmp.Disable()
	m.cmp.ClearPOFEvent()
	return above
}

func (m *Monitor) enableDetection() {
	m.cmp.SetThreshold(BrownoutThreshold)
	m.cmp.ClearPOFEvent()
	m.cmp.EnableInterrupt()
	m.cmp.Enable()
}

// ISR is the power half of the POWER_CLOCK interrupt. An event raised by a
// measurement in progress is left to the measurement.
func (m *Monitor) ISR() {
	if !m.cmp.IsInterruptEnabled() || !m.cmp.IsPOFEvent() {
		return
	}
	m.DisableBrownoutDetection()
	m.cmp.ClearPOFEvent()
	m.warnings++
	if m.recorder != nil {
		if err := m.recorder.RecordToFlash(); err != nil {
			m.log.Error("brownout trace: " + err.Error())
		}
	}
	if m.sink != nil {
		m.sink.BrownoutWarning()
	}
}

// Warnings returns how many brownouts were detected.
func (m *Monitor) Warnings() int {
	return m.warnings
}
