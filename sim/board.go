// Package sim is a deterministic, single-goroutine model of the nRF5x
// peripherals the core package drives: the RTC with its compare registers,
// the NVIC, WFE, the LF and HF oscillators, the power-fail comparator, the
// radio's end event and a word-addressed flash.
//
// Time advances only inside Advance, WaitForEvent and (when ReadCost is
// set) counter reads. Interrupt handlers run synchronously on the caller's
// goroutine at the simulated instant their source fires.
package sim

import (
	"errors"
	"sort"

	"radiosoc/core"
)

var (
	// ErrDeadlock is panicked by WaitForEvent when nothing can ever wake
	// the CPU, or when it would sleep longer than Options.MaxSleepTicks.
	ErrDeadlock = errors.New("sim: WFE would never return")

	// ErrInterruptStorm is panicked when a handler leaves its source set.
	ErrInterruptStorm = errors.New("sim: interrupt retriggers without end")
)

const (
	irqCount             = int(core.IRQRadio) + 1
	maxChainedInterrupts = 64
	counterPeriod        = uint64(core.CounterMask) + 1
)

// Options configures a Board. Zero fields take the defaults noted.
type Options struct {
	// LFStartupTicks is the LF crystal startup time. Default 8192 (250ms).
	LFStartupTicks uint64

	// HFStartupTicks is the HF crystal startup time. Default 12 (~360us).
	HFStartupTicks uint64

	// ReadCost is how many ticks each counter read takes. Default 0;
	// LongClock.WaitOneTick needs it non-zero.
	ReadCost uint64

	// CompareCount is the number of compare registers. Default 4.
	CompareCount int

	// MaxSleepTicks bounds one WaitForEvent. Default 2^26.
	MaxSleepTicks uint64

	// InitialCounter is the counter value at power-on.
	InitialCounter uint32

	// VddMillivolts is the initial supply. Default 3000.
	VddMillivolts uint32

	// FlashWords sizes the flash. Default 64.
	FlashWords int
}

func (o *Options) applyDefaults() {
	if o.LFStartupTicks == 0 {
		o.LFStartupTicks = 8192
	}
	if o.HFStartupTicks == 0 {
		o.HFStartupTicks = 12
	}
	if o.CompareCount == 0 {
		o.CompareCount = 4
	}
	if o.MaxSleepTicks == 0 {
		o.MaxSleepTicks = 1 << 26
	}
	if o.VddMillivolts == 0 {
		o.VddMillivolts = 3000
	}
	if o.FlashWords == 0 {
		o.FlashWords = 64
	}
}

// ReadPhase tells a read hook which side of the counter sample it runs on.
type ReadPhase uint8

const (
	BeforeRead ReadPhase = iota
	AfterRead
)

// ReadHook runs around every counter read. It is not called re-entrantly.
type ReadHook func(phase ReadPhase, counter uint32)

type scheduled struct {
	at  uint64
	seq uint64
	fn  func()
}

// Board is the simulated SoC.
type Board struct {
	opts Options
	now  uint64

	RTC   *RTC
	NVIC  *NVIC
	LF    *LFClock
	HF    *HFClock
	POF   *Comparator
	Radio *Radio
	Flash *Flash

	latch     bool
	inHandler bool
	inHook    bool
	hook      ReadHook

	events  []scheduled
	nextSeq uint64

	waits uint64
	reads uint64
}

// New returns a powered-on board with every peripheral idle.
func New(opts Options) *Board {
	opts.applyDefaults()
	b := &Board{opts: opts}
	b.RTC = newRTC(b, opts.CompareCount, opts.InitialCounter)
	b.NVIC = &NVIC{b: b}
	b.LF = &LFClock{b: b}
	b.HF = &HFClock{b: b}
	b.POF = &Comparator{b: b, vdd: opts.VddMillivolts}
	b.Radio = &Radio{b: b}
	b.Flash = NewFlash(opts.FlashWords)
	return b
}

// Platform returns the board as the core sees it.
func (b *Board) Platform() core.Platform {
	return core.Platform{
		Counter: b.RTC,
		NVIC:    b.NVIC,
		MCU:     b,
		LFClock: b.LF,
		HFClock: b.HF,
	}
}

// Attach installs sys's interrupt vectors.
func (b *Board) Attach(sys *core.System) {
	b.NVIC.SetHandler(core.IRQTimer, sys.RTCIRQHandler)
	b.NVIC.SetHandler(core.IRQPowerClock, sys.PowerClockIRQHandler)
}

// NewSystem builds a board and a System on it with the vectors installed
// and the RTC interrupt enabled. No clock is started.
func NewSystem(opts Options, cfg core.Config) (*Board, *core.System) {
	b := New(opts)
	sys := core.NewSystem(b.Platform(), cfg)
	b.Attach(sys)
	sys.EnableTimerInterrupt()
	return b, sys
}

// Time returns ticks since power-on.
func (b *Board) Time() uint64 {
	return b.now
}

// Waits returns how many times WaitForEvent was called.
func (b *Board) Waits() uint64 {
	return b.waits
}

// SetReadHook installs h, or removes the hook when h is nil.
func (b *Board) SetReadHook(h ReadHook) {
	b.hook = h
}

// At runs fn when simulated time reaches at. fn models a hardware action
// and may change peripheral state; interrupts it causes are dispatched
// afterwards. Times in the past run on the next Advance.
func (b *Board) At(at uint64, fn func()) {
	b.nextSeq++
	ev := scheduled{at: at, seq: b.nextSeq, fn: fn}
	i := sort.Search(len(b.events), func(i int) bool {
		e := b.events[i]
		return e.at > at || (e.at == at && e.seq > ev.seq)
	})
	b.events = append(b.events, scheduled{})
	copy(b.events[i+1:], b.events[i:])
	b.events[i] = ev
}

// After runs fn delay ticks from now.
func (b *Board) After(delay uint64, fn func()) {
	b.At(b.now+delay, fn)
}

// Advance moves time forward, firing events and interrupts in order.
func (b *Board) Advance(ticks uint64) {
	b.runDue()
	b.dispatch()
	for ticks > 0 {
		step := ticks
		if d, ok := b.nextBoundary(); ok && d < step {
			step = d
		}
		b.step(step)
		ticks -= step
		b.dispatch()
	}
}

// WaitForEvent is WFE: it returns at once if the event latch is set, else
// advances time until an interrupt handler has run.
func (b *Board) WaitForEvent() {
	b.waits++
	if b.latch {
		b.latch = false
		return
	}
	var slept uint64
	for {
		d, ok := b.nextBoundary()
		if !ok || slept+d > b.opts.MaxSleepTicks {
			panic(ErrDeadlock)
		}
		b.Advance(d)
		slept += d
		if b.latch {
			b.latch = false
			return
		}
	}
}

// SendEvent is SEV: it sets the event latch.
func (b *Board) SendEvent() {
	b.latch = true
}

// nextBoundary returns the ticks until the next instant at which any
// peripheral state changes.
func (b *Board) nextBoundary() (uint64, bool) {
	var best uint64
	found := false
	consider := func(d uint64) {
		if d == 0 {
			return
		}
		if !found || d < best {
			best, found = d, true
		}
	}
	if b.counting() {
		consider(counterPeriod - uint64(b.RTC.counter))
		for _, cc := range b.RTC.cc {
			consider(cc.distance(b.RTC.counter))
		}
	}
	if b.LF.starting {
		consider(b.LF.readyAt - b.now)
	}
	if b.HF.starting {
		consider(b.HF.readyAt - b.now)
	}
	if len(b.events) > 0 && b.events[0].at > b.now {
		consider(b.events[0].at - b.now)
	}
	return best, found
}

func (b *Board) counting() bool {
	return b.RTC.running && b.LF.started
}

// step advances by n ticks, n never crossing more than one boundary.
func (b *Board) step(n uint64) {
	prev := b.RTC.counter
	b.now += n
	if b.counting() {
		next := uint64(prev) + n
		if next >= counterPeriod {
			b.RTC.overflowEvent = true
		}
		b.RTC.counter = uint32(next % counterPeriod)
		for _, cc := range b.RTC.cc {
			if cc.distance(prev) == n {
				cc.match()
			}
		}
	}
	b.LF.tick()
	b.HF.tick()
	b.runDue()
}

func (b *Board) runDue() {
	for len(b.events) > 0 && b.events[0].at <= b.now {
		ev := b.events[0]
		b.events = b.events[1:]
		ev.fn()
	}
}

// dispatch runs every enabled, pending interrupt, lowest number first,
// unless a handler is already running; then the outer dispatch picks up
// whatever the handler pended.
func (b *Board) dispatch() {
	if b.inHandler {
		return
	}
	for n := 0; ; n++ {
		irq, ok := b.NVIC.next()
		if !ok {
			return
		}
		if n == maxChainedInterrupts {
			panic(ErrInterruptStorm)
		}
		b.NVIC.pending[irq] = false
		b.run(irq)
	}
}

func (b *Board) run(irq core.IRQ) {
	b.inHandler = true
	defer func() {
		b.inHandler = false
		// Exception entry and return set the WFE event register.
		b.latch = true
	}()
	if h := b.NVIC.handlers[irq]; h != nil {
		h()
	}
}

// InHandler reports whether an interrupt handler is running.
func (b *Board) InHandler() bool {
	return b.inHandler
}
