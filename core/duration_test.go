package core_test

import (
	"testing"

	"radiosoc/core"
	"radiosoc/sim"
)

func TestClampedTimeDifference(t *testing.T) {
	testCases := []struct {
		later, earlier core.LongTime
		expected       core.DeltaTime
	}{
		{10, 5, 5},
		{5, 10, 0},
		{5, 5, 0},
		{core.LongTime(core.MaxDeltaTime), 0, core.MaxDeltaTime},
		{core.LongTime(core.MaxDeltaTime) + 10, 0, core.MaxDeltaTime},
		{1 << 40, 1<<40 - 7, 7},
		{1<<56 - 1, 0, core.MaxDeltaTime},
	}
	for _, tc := range testCases {
		if got := core.ClampedTimeDifference(tc.later, tc.earlier); got != tc.expected {
			t.Errorf("ClampedTimeDifference(%d, %d) = %d, want %d", tc.later, tc.earlier, got, tc.expected)
		}
	}
}

func TestClampedTimeDifferenceFromNow(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, core.Config{})

	target := sys.Clock.Now() + 100
	if got := sys.Clock.ClampedTimeDifferenceFromNow(target); got != 100 {
		t.Errorf("difference = %d, want 100", got)
	}
	b.Advance(40)
	if got := sys.Clock.ClampedTimeDifferenceFromNow(target); got != 60 {
		t.Errorf("difference = %d, want 60", got)
	}
	b.Advance(100)
	if got := sys.Clock.ClampedTimeDifferenceFromNow(target); got != 0 {
		t.Errorf("difference = %d once passed, want 0", got)
	}
}

func TestClampedTimeDifferenceToNow(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFFF0}, core.Config{})

	mark := sys.Clock.Now()
	b.Advance(0x30)
	if got := sys.Clock.ClampedTimeDifferenceToNow(mark); got != 0x30 {
		t.Errorf("difference = %#x, want 0x30", got)
	}
	if got := sys.Clock.ClampedTimeDifferenceToNow(mark + 0x1000); got != 0 {
		t.Errorf("difference to a future time = %d, want 0", got)
	}
	if got := core.ConvertLongTimeToOSTime(sys.Clock.Now()); got != 0x20 {
		t.Errorf("ConvertLongTimeToOSTime = %#x, want 0x20", got)
	}
}

func TestElapsed(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, reportConfig())

	b.Advance(500)
	now := sys.Clock.Now()
	got, err := sys.Clock.Elapsed(now - 50)
	if err != nil || got != 50 {
		t.Errorf("Elapsed = %d, %v; want 50, nil", got, err)
	}

	_, err = sys.Clock.Elapsed(now + 10)
	expectViolation(t, err, core.ViolationFutureTime)
}

func TestElapsedSaturates(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{InitialCounter: 0xFFFFF0}, reportConfig())

	b.Advance(0x20)
	got, err := sys.Clock.Elapsed(0)
	if got != core.MaxDeltaTime {
		t.Errorf("Elapsed = %d, want MaxDeltaTime", got)
	}
	expectViolation(t, err, core.ViolationDeltaOverflow)
}

func TestTimeDifferenceFromNow(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, reportConfig())

	b.Advance(500)
	now := sys.Clock.Now()
	for _, tc := range []struct {
		given core.LongTime
		want  core.DeltaTime
	}{
		{now - 120, 120},
		{now + 80, 80},
		{now, 0},
	} {
		got, err := sys.Clock.TimeDifferenceFromNow(tc.given)
		if err != nil || got != tc.want {
			t.Errorf("TimeDifferenceFromNow(%d) = %d, %v; want %d", tc.given, got, err, tc.want)
		}
	}

	got, err := sys.Clock.TimeDifferenceFromNow(now + core.LongTime(core.MaxDeltaTime) + 1)
	if got != core.MaxDeltaTime {
		t.Errorf("far future = %d, want MaxDeltaTime", got)
	}
	expectViolation(t, err, core.ViolationDeltaOverflow)
}

func TestTickConversions(t *testing.T) {
	if got := core.TicksForMilliseconds(1000); got != core.TicksPerSecond {
		t.Errorf("TicksForMilliseconds(1000) = %d", got)
	}
	if got := core.TicksForMicroseconds(30); got != 0 {
		t.Errorf("TicksForMicroseconds(30) = %d, want 0", got)
	}
	if got := core.TicksForMicroseconds(1000000); got != core.TicksPerSecond {
		t.Errorf("TicksForMicroseconds(1e6) = %d", got)
	}
	if got := core.MicrosecondsForTicks(core.TicksPerSecond); got != 1000000 {
		t.Errorf("MicrosecondsForTicks(32768) = %d", got)
	}
}
