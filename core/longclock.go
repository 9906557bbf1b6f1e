package core

import "sync/atomic"

// LongClock extends the 24-bit counter to 56 bits by counting overflows in
// software. The overflow interrupt must be serviced at least once per
// counter period (512 seconds) or the clock loses time.
type LongClock struct {
	counter  Counter
	lfclock  LowFreqClock
	timers   *TimerPool
	contract *contract
	stats    *statCounters
	trace    *TimingRing

	// mostSignificantBits is written only by OverflowISR.
	mostSignificantBits atomic.Uint32

	// priorNow is the largest value Now has returned since the last reset.
	priorNow atomic.Uint64
}

// Start resets the clock and starts the counter. The LF clock must have been
// started; it need not be stable yet.
func (c *LongClock) Start() error {
	if !c.lfclock.IsStarted() {
		return c.contract.violate(ViolationClockNotStarted, "LF clock must be started before LongClock")
	}
	c.ResetToNearZero()

	// Stop first: starting an already started counter is unreliable on some
	// nRF52 revisions.
	c.counter.Stop()
	c.counter.ConfigureOverflowInterrupt()
	c.counter.Start()

	// Timers count on this clock and are only valid once it runs.
	c.timers.init()
	return nil
}

// ResetToNearZero zeroes the overflow tally. The counter itself is not
// cleared so Now restarts somewhere below 2^24.
func (c *LongClock) ResetToNearZero() {
	c.mostSignificantBits.Store(0)
	c.priorNow.Store(0)
}

// Now returns the extended time. It may be called from any context.
//
// The tally is read before and after the counter; if an overflow was
// serviced in between, the read is retried. A result below one already
// returned is a violation; it happens when the overflow interrupt is held
// off across a counter wrap.
func (c *LongClock) Now() LongTime {
	// Loaded before the counter: any value stored here was returned by a
	// Now that sampled the counter earlier.
	prior := LongTime(c.priorNow.Load())
	var result LongTime
	for {
		first := c.mostSignificantBits.Load()
		low := c.counter.Ticks() & CounterMask
		second := c.mostSignificantBits.Load()
		if first == second {
			result = LongTime(first)<<CounterBits | LongTime(low)
			break
		}
	}
	if result < prior {
		c.contract.violate(ViolationClockWentBackwards, utoa64(uint64(result))+" after "+utoa64(uint64(prior)))
		return result
	}
	for {
		old := c.priorNow.Load()
		if uint64(result) <= old || c.priorNow.CompareAndSwap(old, uint64(result)) {
			return result
		}
	}
}

// OSClockNowTime returns the raw counter, without the overflow tally.
func (c *LongClock) OSClockNowTime() OSTime {
	return c.counter.Ticks() & CounterMask
}

// WaitOneTick spins until the counter advances, then returns the new value.
func (c *LongClock) WaitOneTick() OSTime {
	start := c.OSClockNowTime()
	for {
		if now := c.OSClockNowTime(); now != start {
			return now
		}
	}
}

// IsRunning reports whether the LF clock is stable and the counter started.
func (c *LongClock) IsRunning() bool {
	return c.lfclock.IsRunning() && c.counter.IsTicking()
}

// MostSignificantBits returns the overflow tally.
func (c *LongClock) MostSignificantBits() uint32 {
	return c.mostSignificantBits.Load()
}

// OverflowISR services the overflow half of the RTC interrupt. It is a
// no-op when the overflow event is not set.
func (c *LongClock) OverflowISR() {
	if !c.counter.IsOverflowEvent() {
		return
	}
	msb := c.mostSignificantBits.Add(1)
	c.counter.ClearOverflowEventAndWaitUntilClear()
	c.stats.overflows.Add(1)
	c.trace.Record(EvtOverflow, 0, msb, 0)
}
