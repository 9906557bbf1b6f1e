package core

// ClockFacilitator starts the oscillators, sleeping instead of spinning
// while they stabilize.
type ClockFacilitator struct {
	clock    *LongClock
	sleeper  *Sleeper
	lf       LowFreqClock
	hf       HighFreqClock
	nvic     InterruptController
	contract *contract
	log      Logger
}

// StartLongClockWithSleepUntilRunning starts the LF crystal, sleeps until
// it is stable and then starts the LongClock. Interrupts must be globally
// enabled and no timer may be in use.
func (f *ClockFacilitator) StartLongClockWithSleepUntilRunning() error {
	f.nvic.Enable(IRQPowerClock)
	f.lf.EnableInterruptOnStarted()
	f.lf.ConfigureXtalSource()

	// Cleared before the start so the started event cannot be missed.
	f.sleeper.ClearReasonForWake()
	f.lf.Start()
	f.sleeper.SleepUntilSpecificEvent(LFClockStarted)

	if !f.lf.IsRunning() {
		return f.contract.violate(ViolationClockNotRunning, "LF clock")
	}
	f.log.Debug("LF clock running")
	return f.clock.Start()
}

// StartLongClockNoWaitUntilRunning starts the LF crystal and the LongClock
// without waiting for stability. Timers run on the RC oscillator until the
// crystal takes over and may be less accurate meanwhile.
func (f *ClockFacilitator) StartLongClockNoWaitUntilRunning() error {
	f.lf.ConfigureXtalSource()
	f.lf.Start()
	return f.clock.Start()
}

// IsLongClockRunning reports whether the LongClock is counting on a stable
// LF clock.
func (f *ClockFacilitator) IsLongClockRunning() bool {
	return f.clock.IsRunning()
}

// StartHFClockWithSleepConstantExpectedDelay starts the HF crystal and
// sleeps for delay, a datasheet bound on its startup time. The started
// interrupt is not used.
func (f *ClockFacilitator) StartHFClockWithSleepConstantExpectedDelay(delay OSTime) error {
	if f.hf.IsRunning() {
		return f.contract.violate(ViolationClockAlreadyRunning, "HF clock")
	}
	if f.hf.IsInterruptEnabledForRunning() {
		return f.contract.violate(ViolationInterruptEnabled, "HF clock running")
	}
	f.sleeper.ClearReasonForWake()
	f.hf.Start()
	return f.sleeper.SleepDuration(delay)
}

// StartHFXOAndSleepUntilRunning starts the HF crystal and sleeps until its
// started interrupt. The ISR disables nothing; the interrupt is disabled
// here once the clock runs.
func (f *ClockFacilitator) StartHFXOAndSleepUntilRunning() error {
	if f.hf.IsRunning() {
		return f.contract.violate(ViolationClockAlreadyRunning, "HF clock")
	}
	if f.hf.IsStartedEvent() {
		return f.contract.violate(ViolationStaleClockEvent, "HF clock")
	}
	f.nvic.Enable(IRQPowerClock)
	f.hf.EnableInterruptOnRunning()

	f.sleeper.ClearReasonForWake()
	f.hf.Start()
	f.sleeper.SleepUntilSpecificEvent(HFClockStarted)
	f.hf.DisableInterruptOnRunning()

	if !f.hf.IsRunning() {
		return f.contract.violate(ViolationClockNotRunning, "HF clock")
	}
	f.log.Debug("HF clock running")
	return nil
}

// ClockISR services the clock half of the POWER_CLOCK interrupt. Only
// events whose interrupt is enabled are consumed, so a started event left
// by StartHFClockWithSleepConstantExpectedDelay is not reported during a
// later timed sleep.
func (f *ClockFacilitator) ClockISR() {
	if f.lf.IsInterruptEnabledOnStarted() && f.lf.IsStartedEvent() {
		// The event stays set; disabling the interrupt is enough.
		f.lf.DisableInterruptOnStarted()
		f.sleeper.ClockStarted(LFClockStarted)
	}
	if f.hf.IsInterruptEnabledForRunning() && f.hf.IsStartedEvent() {
		f.hf.ClearStartedEvent()
		f.sleeper.ClockStarted(HFClockStarted)
	}
}
