package core

// OSTime is a value of the free-running hardware counter, or a timeout in
// counter ticks. Only the low CounterBits bits are meaningful.
type OSTime uint32

// LongTime is a value of the extended clock. Only the low 56 bits are valid.
type LongTime uint64

// DeltaTime is a span of ticks between two LongTimes.
type DeltaTime uint32

const (
	// CounterBits is the width of the RTC counter and its compare registers.
	CounterBits = 24

	// CounterMask masks an OSTime to the bits the hardware compares.
	CounterMask OSTime = 1<<CounterBits - 1

	// MaxTimeout is the longest timeout a compare register can express
	// (about 8.4 minutes at 30.5us per tick).
	MaxTimeout OSTime = 0xFFFFFF

	// MaxDeltaTime saturates duration arithmetic on the extended clock.
	MaxDeltaTime DeltaTime = DeltaTime(MaxTimeout)

	// DefaultMinTimeout is the smallest timeout the RTC reliably turns into
	// a compare event. Measured on nRF52; some SDKs use 3 or 5.
	DefaultMinTimeout OSTime = 2

	// TicksPerSecond is the LF clock rate with a zero prescaler.
	TicksPerSecond = 32768
)

// IRQ identifies one of the interrupt vectors the core uses.
type IRQ uint8

const (
	IRQTimer      IRQ = iota // RTC: counter overflow and compare matches
	IRQPowerClock            // POWER_CLOCK: oscillator started, power-fail warning
	IRQRadio                 // RADIO: packet received
)

// Counter is the 24-bit RTC the extended clock and all timers count on.
type Counter interface {
	// Ticks returns the counter value (low 24 bits valid).
	Ticks() OSTime

	IsOverflowEvent() bool

	// ClearOverflowEventAndWaitUntilClear clears the overflow event and
	// spins until the peripheral confirms it, so the IRQ does not retrigger.
	ClearOverflowEventAndWaitUntilClear()

	// ConfigureOverflowInterrupt routes the overflow event to IRQTimer.
	ConfigureOverflowInterrupt()

	Start()
	Stop()

	// IsTicking reports whether the counter was started.
	IsTicking() bool

	// Compare returns compare register i of this counter.
	Compare(i int) CompareRegister

	// CompareCount returns the number of compare registers.
	CompareCount() int
}

// CompareRegister raises an event, and IRQTimer when enabled, when the
// counter reaches the programmed value.
type CompareRegister interface {
	// Set programs the match value. The hardware ignores the upper 8 bits.
	Set(value OSTime)

	// EnableInterrupt enables the event and its interrupt. If the event is
	// already set the interrupt is raised immediately.
	EnableInterrupt()

	DisableInterruptAndClearEvent()

	IsEvent() bool
}

// InterruptController is the NVIC facade.
type InterruptController interface {
	Enable(irq IRQ)
	Disable(irq IRQ)

	// Pend forces irq pending as if its peripheral had raised it.
	Pend(irq IRQ)
}

// MCU is the low-power wait primitive.
type MCU interface {
	// WaitForEvent has WFE semantics: it returns at once if the event latch
	// is set (clearing it), else sleeps until any interrupt or event.
	WaitForEvent()
}

// LowFreqClock is the 32kHz oscillator the RTC counts.
type LowFreqClock interface {
	ConfigureXtalSource()
	Start()
	IsStarted() bool
	IsRunning() bool

	IsStartedEvent() bool
	EnableInterruptOnStarted()
	DisableInterruptOnStarted()
	IsInterruptEnabledOnStarted() bool
}

// HighFreqClock is the crystal oscillator the radio requires.
type HighFreqClock interface {
	Start()
	IsRunning() bool

	IsStartedEvent() bool
	ClearStartedEvent()
	EnableInterruptOnRunning()
	DisableInterruptOnRunning()
	IsInterruptEnabledForRunning() bool
}

// Platform bundles the hardware a System runs on.
type Platform struct {
	Counter Counter
	NVIC    InterruptController
	MCU     MCU
	LFClock LowFreqClock
	HFClock HighFreqClock
}
