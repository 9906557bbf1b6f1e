// Package core implements the clock, timer and sleep substrate of a
// low-power nRF5x radio node: a 56-bit clock extended from the 24-bit RTC,
// one-shot timers on its compare registers, a task timer, and a sleeper
// that arbitrates why the CPU woke.
//
// Everything is reached through a System built on a Platform. The target
// installs its interrupt vectors to call RTCIRQHandler and
// PowerClockIRQHandler; the simulator in package sim does the same.
package core

// System owns one instance of each component, wired to a Platform.
type System struct {
	Clock    *LongClock
	Timers   *TimerPool
	Tasks    *TaskTimer
	Sleeper  *Sleeper
	Clocks   *ClockFacilitator
	Trace    *TimingRing
	platform Platform
	contract *contract
	stats    statCounters
	log      Logger

	powerHooks []func()
}

// NewSystem wires the components together. The counter must have at least
// three compare registers. Nothing touches the hardware until a clock is
// started.
func NewSystem(p Platform, cfg Config) *System {
	cfg.applyDefaults()
	if p.Counter.CompareCount() < CountTimerInstances+1 {
		panic("core: counter needs " + utoa(CountTimerInstances+1) + " compare registers")
	}

	s := &System{platform: p, log: cfg.Logger}
	s.Trace = NewTimingRing(p.Counter)
	s.Trace.SetEnabled(!cfg.DisableTrace)
	s.contract = &contract{
		policy: cfg.Policy,
		fault:  cfg.Fault,
		log:    cfg.Logger,
		trace:  s.Trace,
		stats:  &s.stats,
	}

	s.Timers = &TimerPool{
		nvic:       p.NVIC,
		minTimeout: cfg.MinTimeout,
		contract:   s.contract,
		stats:      &s.stats,
		trace:      s.Trace,
	}
	for i := range s.Timers.timers {
		s.Timers.timers[i].compare = p.Counter.Compare(i)
	}

	s.Clock = &LongClock{
		counter:  p.Counter,
		lfclock:  p.LFClock,
		timers:   s.Timers,
		contract: s.contract,
		stats:    &s.stats,
		trace:    s.Trace,
	}
	s.Timers.clock = s.Clock

	s.Tasks = &TaskTimer{
		clock:      s.Clock,
		compare:    p.Counter.Compare(taskCompareIndex),
		nvic:       p.NVIC,
		minTimeout: cfg.MinTimeout,
		contract:   s.contract,
		stats:      &s.stats,
		trace:      s.Trace,
	}

	s.Sleeper = &Sleeper{
		clock:          s.Clock,
		timers:         s.Timers,
		mcu:            p.MCU,
		contract:       s.contract,
		stats:          &s.stats,
		trace:          s.Trace,
		log:            cfg.Logger,
		maxSaneTimeout: MaxTimeout,
	}
	if cfg.SaneTimeout <= MaxTimeout {
		s.Sleeper.maxSaneTimeout = cfg.SaneTimeout
	}

	s.Clocks = &ClockFacilitator{
		clock:    s.Clock,
		sleeper:  s.Sleeper,
		lf:       p.LFClock,
		hf:       p.HFClock,
		nvic:     p.NVIC,
		contract: s.contract,
		log:      cfg.Logger,
	}
	return s
}

// EnableTimerInterrupt routes the RTC interrupt to the CPU. Call it once
// the vector is installed.
func (s *System) EnableTimerInterrupt() {
	s.platform.NVIC.Enable(IRQTimer)
}

// RTCIRQHandler is the RTC interrupt vector: overflow first, so timer
// callbacks see an up to date clock, then the timers, then the task.
func (s *System) RTCIRQHandler() {
	s.Clock.OverflowISR()
	s.Timers.ISR()
	s.Tasks.ISR()
}

// AddPowerClockHook registers a handler run by PowerClockIRQHandler before
// the clock handler. Register hooks before enabling interrupts.
func (s *System) AddPowerClockHook(isr func()) {
	s.powerHooks = append(s.powerHooks, isr)
}

// PowerClockIRQHandler is the POWER_CLOCK interrupt vector.
func (s *System) PowerClockIRQHandler() {
	for _, hook := range s.powerHooks {
		hook()
	}
	s.Clocks.ClockISR()
}

// Stats returns a snapshot of the event counters.
func (s *System) Stats() Stats {
	return s.stats.snapshot()
}

// LastViolation returns the most recent contract violation, or nil.
func (s *System) LastViolation() error {
	if err := s.contract.last.Load(); err != nil {
		return err
	}
	return nil
}

// Logger returns the configured logger.
func (s *System) Logger() Logger {
	return s.log
}

// Policy returns the contract policy in force.
func (s *System) Policy() Policy {
	return s.contract.policy
}
