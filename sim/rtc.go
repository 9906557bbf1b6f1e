package sim

import "radiosoc/core"

// RTC is the 24-bit real time counter.
type RTC struct {
	b       *Board
	counter uint32
	running bool

	overflowEvent   bool
	overflowEnabled bool

	cc []*CompareRegister
}

func newRTC(b *Board, compares int, initial uint32) *RTC {
	r := &RTC{b: b, counter: initial & uint32(core.CounterMask)}
	for i := 0; i < compares; i++ {
		r.cc = append(r.cc, &CompareRegister{rtc: r})
	}
	return r
}

// Ticks samples the counter. With ReadCost set, time moves on after the
// sample is taken.
func (r *RTC) Ticks() core.OSTime {
	b := r.b
	b.reads++
	b.callHook(BeforeRead, r.counter)
	v := r.counter
	if b.opts.ReadCost > 0 {
		b.Advance(b.opts.ReadCost)
	}
	b.callHook(AfterRead, v)
	return core.OSTime(v)
}

func (b *Board) callHook(phase ReadPhase, counter uint32) {
	if b.hook == nil || b.inHook {
		return
	}
	b.inHook = true
	defer func() { b.inHook = false }()
	b.hook(phase, counter)
}

// Counter returns the counter without the side effects of a read.
func (r *RTC) Counter() uint32 {
	return r.counter
}

func (r *RTC) IsOverflowEvent() bool {
	return r.overflowEvent
}

func (r *RTC) ClearOverflowEventAndWaitUntilClear() {
	r.overflowEvent = false
}

func (r *RTC) ConfigureOverflowInterrupt() {
	r.overflowEnabled = true
	r.b.dispatch()
}

func (r *RTC) Start() {
	r.running = true
}

func (r *RTC) Stop() {
	r.running = false
}

func (r *RTC) IsTicking() bool {
	return r.running
}

func (r *RTC) Compare(i int) core.CompareRegister {
	return r.cc[i]
}

// CompareReg returns the concrete compare register i, for tests.
func (r *RTC) CompareReg(i int) *CompareRegister {
	return r.cc[i]
}

func (r *RTC) CompareCount() int {
	return len(r.cc)
}

// ForceOverflowEvent sets the overflow event without moving the counter.
func (r *RTC) ForceOverflowEvent() {
	r.overflowEvent = true
	r.b.dispatch()
}

func (r *RTC) interruptLine() bool {
	if r.overflowEvent && r.overflowEnabled {
		return true
	}
	for _, cc := range r.cc {
		if cc.event && cc.enabled {
			return true
		}
	}
	return false
}

// CompareRegister matches when the counter steps onto its value. As on the
// nRF52, a value one ahead of the counter when written is missed and only
// matches a full period later.
type CompareRegister struct {
	rtc     *RTC
	value   uint32
	event   bool
	enabled bool
	skip    bool
	Matches uint64
}

func (c *CompareRegister) Set(value core.OSTime) {
	c.value = uint32(value & core.CounterMask)
	c.skip = (c.value-c.rtc.counter)&uint32(core.CounterMask) == 1
}

func (c *CompareRegister) EnableInterrupt() {
	c.enabled = true
	c.rtc.b.dispatch()
}

func (c *CompareRegister) DisableInterruptAndClearEvent() {
	c.enabled = false
	c.event = false
}

func (c *CompareRegister) IsEvent() bool {
	return c.event
}

// Value returns the programmed match value.
func (c *CompareRegister) Value() uint32 {
	return c.value
}

// InterruptEnabled reports whether the match raises the interrupt.
func (c *CompareRegister) InterruptEnabled() bool {
	return c.enabled
}

// SetEvent raises the compare event as if the counter had matched.
func (c *CompareRegister) SetEvent() {
	c.event = true
	c.rtc.b.dispatch()
}

// distance returns the ticks until the counter next steps onto value.
func (c *CompareRegister) distance(counter uint32) uint64 {
	d := uint64((c.value - counter) & uint32(core.CounterMask))
	if d == 0 {
		d = counterPeriod
	}
	return d
}

func (c *CompareRegister) match() {
	if c.skip {
		c.skip = false
		return
	}
	c.Matches++
	c.event = true
}
