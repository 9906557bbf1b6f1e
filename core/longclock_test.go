package core_test

import (
	"errors"
	"testing"

	"radiosoc/core"
	"radiosoc/sim"
)

func TestLongClockStartsNearZero(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, core.Config{})

	if !sys.Clock.IsRunning() {
		t.Fatalf("clock not running after start")
	}
	if now := sys.Clock.Now(); now != 0 {
		t.Errorf("Now() = %d at start, want 0", now)
	}
	b.Advance(1234)
	if now := sys.Clock.Now(); now != 1234 {
		t.Errorf("Now() = %d, want 1234", now)
	}
}

func TestLongClockAcrossOverflow(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFFF0}, core.Config{})

	prev := sys.Clock.Now()
	if prev != 0xFFFFF0 {
		t.Fatalf("Now() = %#x, want 0xFFFFF0", prev)
	}
	for i := 0; i < 0x20; i++ {
		b.Advance(1)
		now := sys.Clock.Now()
		if now != prev+1 {
			t.Fatalf("step %d: Now() = %#x after %#x", i, now, prev)
		}
		prev = now
	}
	if prev != 1<<24+0x10 {
		t.Errorf("Now() = %#x, want %#x", prev, 1<<24+0x10)
	}
	if got := sys.Clock.MostSignificantBits(); got != 1 {
		t.Errorf("MostSignificantBits() = %d, want 1", got)
	}
	if got := sys.Stats().Overflows; got != 1 {
		t.Errorf("Overflows = %d, want 1", got)
	}
}

func TestLongClockManyOverflows(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, core.Config{})

	const periods = 5
	b.Advance(periods << 24)
	if now := sys.Clock.Now(); now != periods<<24 {
		t.Errorf("Now() = %#x, want %#x", now, periods<<24)
	}
}

// An overflow serviced between the tally read and the counter read, on
// either side of the counter sample, must not produce a time in the past.
func TestLongClockDoubleReadInterleaving(t *testing.T) {
	for _, phase := range []sim.ReadPhase{sim.BeforeRead, sim.AfterRead} {
		b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFFFF}, core.Config{DisableTrace: true})

		armed := true
		b.SetReadHook(func(p sim.ReadPhase, counter uint32) {
			if armed && p == phase {
				armed = false
				b.Advance(1)
			}
		})
		now := sys.Clock.Now()
		b.SetReadHook(nil)

		if armed {
			t.Fatalf("phase %d: hook never ran", phase)
		}
		if now != 1<<24 {
			t.Errorf("phase %d: Now() = %#x, want %#x", phase, now, 1<<24)
		}
		if later := sys.Clock.Now(); later < now {
			t.Errorf("phase %d: clock went back from %#x to %#x", phase, now, later)
		}
	}
}

func TestLongClockWaitOneTick(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{ReadCost: 1}, core.Config{})

	before := b.RTC.Counter()
	got := sys.Clock.WaitOneTick()
	if uint32(got) == before {
		t.Errorf("WaitOneTick returned the starting value %d", got)
	}
}

func TestLongClockResetToNearZero(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFF00}, core.Config{})

	b.Advance(0x200)
	if now := sys.Clock.Now(); now < 1<<24 {
		t.Fatalf("Now() = %#x, expected past the first overflow", now)
	}
	sys.Clock.ResetToNearZero()
	if now := sys.Clock.Now(); now >= 1<<24 {
		t.Errorf("Now() = %#x after reset, want below 2^24", now)
	}
}

func TestLongClockStartRequiresLFClock(t *testing.T) {
	_, sys := sim.NewSystem(sim.Options{}, reportConfig())

	err := sys.Clock.Start()
	if !errors.Is(err, core.ErrContract) {
		t.Fatalf("Start() = %v, want contract violation", err)
	}
	expectViolation(t, err, core.ViolationClockNotStarted)

	_, sys = sim.NewSystem(sim.Options{}, core.Config{})
	expectTrap(t, core.ViolationClockNotStarted, func() { sys.Clock.Start() })
}

func TestLongClockOverflowISRWithoutEvent(t *testing.T) {
	_, sys := startedSystem(t, sim.Options{}, core.Config{})

	sys.Clock.OverflowISR()
	if got := sys.Clock.MostSignificantBits(); got != 0 {
		t.Errorf("OverflowISR without event bumped the tally to %d", got)
	}
}

// With the overflow interrupt held off across the wrap, the tally lags the
// counter and Now would step back by a whole period.
func TestLongClockWentBackwards(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFFF0}, core.Config{})

	if prev := sys.Clock.Now(); prev != 0xFFFFF0 {
		t.Fatalf("Now() = %#x, want 0xFFFFF0", prev)
	}
	b.NVIC.Disable(core.IRQTimer)
	b.Advance(0x20)
	expectTrap(t, core.ViolationClockWentBackwards, func() { sys.Clock.Now() })
}

func TestLongClockWentBackwardsReported(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFFF0}, reportConfig())

	sys.Clock.Now()
	b.NVIC.Disable(core.IRQTimer)
	b.Advance(0x20)
	if now := sys.Clock.Now(); now != 0x10 {
		t.Errorf("Now() = %#x, want the raw 0x10", now)
	}
	var ce *core.ContractError
	if !errors.As(sys.LastViolation(), &ce) || ce.Kind != core.ViolationClockWentBackwards {
		t.Fatalf("LastViolation() = %v", sys.LastViolation())
	}

	b.NVIC.Enable(core.IRQTimer)
	if now := sys.Clock.Now(); now != 1<<24+0x10 {
		t.Errorf("Now() = %#x once the overflow is serviced", now)
	}
	if got := sys.Stats().Violations; got != 1 {
		t.Errorf("Violations = %d, want 1", got)
	}
}

func TestLongClockResetIsNotBackwards(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFF00}, core.Config{})

	b.Advance(0x200)
	if now := sys.Clock.Now(); now < 1<<24 {
		t.Fatalf("Now() = %#x, expected past the first overflow", now)
	}
	sys.Clock.ResetToNearZero()
	sys.Clock.Now()
	b.Advance(10)
	sys.Clock.Now()
	if err := sys.LastViolation(); err != nil {
		t.Errorf("violation across reset: %v", err)
	}
}
