package core

import "sync/atomic"

// Sleeper puts the CPU into WFE for a bounded time and remembers why it
// woke. It is the sleep timer's callback and the sink for the radio, clock
// and brownout interrupts.
type Sleeper struct {
	clock    *LongClock
	timers   *TimerPool
	mcu      MCU
	contract *contract
	stats    *statCounters
	trace    *TimingRing
	log      Logger

	reason         atomic.Uint32
	maxSaneTimeout OSTime
}

// SetSaneTimeout caps SleepUntilEventWithTimeout, catching callers whose
// timeout arithmetic went wrong. It must not exceed MaxTimeout.
func (s *Sleeper) SetSaneTimeout(max OSTime) error {
	if max > MaxTimeout {
		return s.contract.violate(ViolationTimeoutTooLong, "sane timeout "+utoa(uint32(max)))
	}
	s.maxSaneTimeout = max
	return nil
}

// SaneTimeout returns the current cap.
func (s *Sleeper) SaneTimeout() OSTime {
	return s.maxSaneTimeout
}

// SleepUntilEventWithTimeout clears the reason, arms the sleep timer and
// waits for one event. The caller inspects ReasonForWake afterwards.
//
// A timeout above the sane maximum is a violation; under PolicyReport the
// sleep still happens, clamped to the maximum, and the violation is
// returned.
func (s *Sleeper) SleepUntilEventWithTimeout(timeout OSTime) error {
	s.ClearReasonForWake()

	var report error
	if timeout > s.maxSaneTimeout {
		report = s.contract.violate(ViolationTimeoutNotSane, "timeout "+utoa(uint32(timeout)))
		timeout = s.maxSaneTimeout
	}

	if err := s.timers.Start(SleepTimer, timeout, s); err != nil {
		return err
	}
	s.stats.sleeps.Add(1)
	s.trace.Record(EvtSleep, 0, uint32(timeout), 0)

	s.mcu.WaitForEvent()

	// The wake may have been anything; never leave the timer running.
	s.timers.Cancel(SleepTimer)

	reason := s.ReasonForWake()
	if reason < reasonCount {
		s.stats.wakeReasons[reason].Add(1)
	}
	s.trace.Record(EvtWake, 0, uint32(reason), 0)
	return report
}

// SleepDuration sleeps for at least duration ticks, ignoring every wake
// that is not the sleep timer. Other interrupts still run their handlers.
//
// A duration above the sane maximum is a violation; under PolicyReport the
// whole duration is still slept, in pieces no longer than the maximum, and
// the violation is returned afterwards.
func (s *Sleeper) SleepDuration(duration OSTime) error {
	end := s.clock.Now() + LongTime(duration)

	var report error
	if duration > s.maxSaneTimeout {
		report = s.contract.violate(ViolationTimeoutNotSane, "duration "+utoa(uint32(duration)))
	}

	remaining := duration
	for {
		step := remaining
		if step > s.maxSaneTimeout {
			step = s.maxSaneTimeout
		}
		if err := s.SleepUntilEventWithTimeout(step); err != nil {
			return err
		}
		expired := s.IsWakeForTimerExpired()
		if expired && step == remaining {
			return report
		}
		if !expired {
			s.stats.spuriousWakes.Add(1)
		}
		remaining = OSTime(s.clock.ClampedTimeDifferenceFromNow(end))
	}
}

// SleepUntilSpecificEvent waits, without a timeout, until the reason equals
// reason. The caller clears the reason before triggering the event.
func (s *Sleeper) SleepUntilSpecificEvent(reason ReasonForWake) {
	for s.ReasonForWake() != reason {
		s.mcu.WaitForEvent()
	}
}

// CancelTimeout stops the sleep timer.
func (s *Sleeper) CancelTimeout() {
	s.timers.Cancel(SleepTimer)
}

// IsWakeForTimerExpired reports whether the last sleep ended on its
// timeout. Reasons that should not end a timed sleep are logged.
func (s *Sleeper) IsWakeForTimerExpired() bool {
	reason := s.ReasonForWake()
	switch reason {
	case SleepTimerExpired:
		return true
	case CounterOverflowOrOtherTimerExpired, BrownoutWarning, MsgReceived:
		return false
	case Cleared:
		s.log.Debug("woke for event that did not record a reason")
	case HFClockStarted, LFClockStarted:
		s.log.Warn("clock started during timed sleep: " + reason.String())
	default:
		s.log.Warn("unexpected reason for wake: " + reason.String())
	}
	return false
}

// ReasonForWake returns the last recorded reason.
func (s *Sleeper) ReasonForWake() ReasonForWake {
	return ReasonForWake(s.reason.Load())
}

// SetReasonForWake writes reason through Arbitrate.
func (s *Sleeper) SetReasonForWake(reason ReasonForWake) {
	for {
		old := ReasonForWake(s.reason.Load())
		next, v := Arbitrate(old, reason)
		if v != ViolationNone {
			s.contract.violate(v, old.String()+" <- "+reason.String())
			return
		}
		if next == old {
			return
		}
		if s.reason.CompareAndSwap(uint32(old), uint32(next)) {
			s.trace.Record(EvtReason, 0, uint32(old), uint32(next))
			return
		}
	}
}

// ClearReasonForWake resets the reason unconditionally.
func (s *Sleeper) ClearReasonForWake() {
	s.reason.Store(uint32(Cleared))
}

// TimerExpired is the sleep timer callback.
func (s *Sleeper) TimerExpired(reason TimerInterruptReason) {
	if reason == SleepTimerCompare {
		s.SetReasonForWake(SleepTimerExpired)
	} else {
		s.SetReasonForWake(CounterOverflowOrOtherTimerExpired)
	}
}

// MsgReceivedCallback is called from the radio ISR. A message that arrives
// after the reason was cleared but before the WFE is not lost: the ISR sets
// the event latch and the WFE returns at once.
func (s *Sleeper) MsgReceivedCallback() {
	s.SetReasonForWake(MsgReceived)
}

// BrownoutWarning is called from the power ISR.
func (s *Sleeper) BrownoutWarning() {
	s.SetReasonForWake(BrownoutWarning)
}

// ClockStarted is called from the clock ISR with HFClockStarted or
// LFClockStarted.
func (s *Sleeper) ClockStarted(which ReasonForWake) {
	s.SetReasonForWake(which)
}
