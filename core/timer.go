package core

// TimerIndex selects one of the one-shot timers.
type TimerIndex uint8

const (
	// SleepTimer is the timer the Sleeper owns. It alone receives
	// overflow-or-other notifications.
	SleepTimer TimerIndex = 0

	// SecondTimer is free for the application.
	SecondTimer TimerIndex = 1

	CountTimerInstances = 2

	// taskCompareIndex is the compare register the TaskTimer uses.
	taskCompareIndex = CountTimerInstances
)

// TimerInterruptReason tells a timer callback why it is being called.
type TimerInterruptReason uint8

const (
	// OverflowOrOtherTimerCompare: the RTC interrupt fired for something
	// other than this timer. Only the sleep timer is told.
	OverflowOrOtherTimerCompare TimerInterruptReason = iota

	// SleepTimerCompare: this timer expired.
	SleepTimerCompare
)

func (r TimerInterruptReason) String() string {
	if r == SleepTimerCompare {
		return "expired"
	}
	return "overflow or other"
}

// TimerCallback runs in interrupt context and must be brief.
type TimerCallback interface {
	TimerExpired(reason TimerInterruptReason)
}

// TimerCallbackFunc adapts a function to TimerCallback.
type TimerCallbackFunc func(reason TimerInterruptReason)

func (f TimerCallbackFunc) TimerExpired(reason TimerInterruptReason) {
	f(reason)
}

type timer struct {
	compare  CompareRegister
	callback TimerCallback
	inUse    bool // started and callback not yet delivered
	expired  bool // compare matched or forced; reset by Start and Cancel
}

// TimerPool multiplexes one-shot timers onto compare registers 0 and 1 of
// the counter. A started timer delivers exactly one callback unless it is
// canceled first.
type TimerPool struct {
	clock      *LongClock
	nvic       InterruptController
	minTimeout OSTime
	contract   *contract
	stats      *statCounters
	trace      *TimingRing
	timers     [CountTimerInstances]timer
}

// init is called by LongClock.Start.
func (p *TimerPool) init() {
	for i := range p.timers {
		t := &p.timers[i]
		t.compare.DisableInterruptAndClearEvent()
		t.callback = nil
		t.inUse = false
		t.expired = false
	}
}

func (p *TimerPool) lookup(index TimerIndex) (*timer, error) {
	if int(index) >= CountTimerInstances {
		return nil, p.contract.violate(ViolationBadTimerIndex, "timer "+utoa(uint32(index)))
	}
	return &p.timers[index], nil
}

// Start arms timer index to call cb after timeout ticks. timeout must be
// below MaxTimeout. Zero and very short timeouts expire immediately, the
// callback then running from a software-pended interrupt.
//
// Starting a started timer is a violation. With PolicyReport the timer is
// left running as it was.
func (p *TimerPool) Start(index TimerIndex, timeout OSTime, cb TimerCallback) error {
	t, err := p.lookup(index)
	if err != nil {
		return err
	}
	if timeout >= MaxTimeout {
		return p.contract.violate(ViolationTimeoutTooLong, "timeout "+utoa(uint32(timeout)))
	}
	if t.inUse {
		return p.contract.violate(ViolationTimerAlreadyStarted, "timer "+utoa(uint32(index)))
	}
	t.callback = cb
	t.expired = false
	t.inUse = true
	p.trace.Record(EvtTimerStart, uint8(index), uint32(timeout), 0)
	p.arm(t, index, timeout)
	return nil
}

// arm programs the compare register. If the counter may already have passed
// the match value, or is too close for the hardware to see it, the timer is
// expired in software and the interrupt pended so the callback still comes
// from interrupt context.
func (p *TimerPool) arm(t *timer, index TimerIndex, timeout OSTime) {
	// Drop a stale match left from the register's previous use.
	t.compare.DisableInterruptAndClearEvent()

	before := p.clock.OSClockNowTime()
	t.compare.Set(before + timeout)
	after := p.clock.OSClockNowTime()

	// Ticks spent between the reads, modulo the counter width.
	spent := (after - before) & CounterMask
	if spent+p.minTimeout > timeout {
		t.expired = true
		p.stats.forcedExpiries.Add(1)
		p.trace.Record(EvtTimerForced, uint8(index), uint32(timeout), uint32(spent))
		p.nvic.Pend(IRQTimer)
	}
	// A compare match that already happened is delivered now; clearing it
	// is the ISR's job.
	t.compare.EnableInterrupt()
}

// Cancel stops timer index. No callback follows, and IsExpired reports
// false. Canceling a stopped timer has no effect.
func (p *TimerPool) Cancel(index TimerIndex) error {
	t, err := p.lookup(index)
	if err != nil {
		return err
	}
	t.compare.DisableInterruptAndClearEvent()
	t.inUse = false
	t.expired = false
	p.trace.Record(EvtTimerCancel, uint8(index), 0, 0)
	return nil
}

// IsStarted reports whether timer index is armed and has not delivered its
// callback.
func (p *TimerPool) IsStarted(index TimerIndex) bool {
	if int(index) >= CountTimerInstances {
		return false
	}
	return p.timers[index].inUse
}

// IsExpired reports whether timer index expired since it was last started.
// It stays true after the callback until the next Start or Cancel.
func (p *TimerPool) IsExpired(index TimerIndex) bool {
	if int(index) >= CountTimerInstances {
		return false
	}
	return p.timers[index].expired
}

// ISR services the compare half of the RTC interrupt. Events are latched for
// every timer before any callback runs, so a callback that starts or cancels
// another timer cannot confuse this pass.
func (p *TimerPool) ISR() {
	var due [CountTimerInstances]bool
	for i := range p.timers {
		t := &p.timers[i]
		if t.compare.IsEvent() {
			t.compare.DisableInterruptAndClearEvent()
			if t.inUse {
				t.expired = true
			} else {
				p.trace.Record(EvtStaleCompare, uint8(i), 0, 0)
			}
		}
		due[i] = t.inUse && t.expired
	}

	sleep := &p.timers[SleepTimer]
	if due[SleepTimer] {
		p.deliver(SleepTimer)
	} else if sleep.inUse {
		p.stats.otherWakes.Add(1)
		p.trace.Record(EvtTimerOther, uint8(SleepTimer), 0, 0)
		if sleep.callback != nil {
			sleep.callback.TimerExpired(OverflowOrOtherTimerCompare)
		}
	}

	for i := SleepTimer + 1; i < CountTimerInstances; i++ {
		t := &p.timers[i]
		// An earlier callback may have canceled or restarted this timer.
		if due[i] && t.inUse && t.expired {
			p.deliver(i)
		}
	}
}

// deliver marks the timer stopped and then calls back, so the callback may
// restart it.
func (p *TimerPool) deliver(index TimerIndex) {
	t := &p.timers[index]
	t.inUse = false
	cb := t.callback
	p.stats.timerFires.Add(1)
	p.trace.Record(EvtTimerFire, uint8(index), 0, 0)
	if cb != nil {
		cb.TimerExpired(SleepTimerCompare)
	}
}
