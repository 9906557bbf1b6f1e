package core_test

import (
	"testing"

	"radiosoc/core"
	"radiosoc/sim"
)

func TestTaskRunsOnce(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, core.Config{})

	var at []uint32
	task := core.TaskFunc(func() { at = append(at, b.RTC.Counter()) })
	if err := sys.Tasks.Schedule(task, 100); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if !sys.Tasks.IsScheduled() {
		t.Fatalf("IsScheduled false after Schedule")
	}
	b.Advance(1 << 25)

	if len(at) != 1 || at[0] != 100 {
		t.Errorf("task ran at %v, want [100]", at)
	}
	if sys.Tasks.IsScheduled() {
		t.Errorf("IsScheduled true after the task ran")
	}
	if got := sys.Stats().TaskRuns; got != 1 {
		t.Errorf("TaskRuns = %d, want 1", got)
	}
}

func TestTaskForcedExpiry(t *testing.T) {
	_, sys := startedSystem(t, sim.Options{}, core.Config{})

	var ran int
	sys.Tasks.Schedule(core.TaskFunc(func() { ran++ }), 1)
	if ran != 1 {
		t.Errorf("short task ran %d times before Schedule returned, want 1", ran)
	}
	if sys.Tasks.IsScheduled() {
		t.Errorf("IsScheduled true after forced run")
	}
}

func TestTaskScheduleWhilePending(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, reportConfig())

	var first, second int
	sys.Tasks.Schedule(core.TaskFunc(func() { first++ }), 100)
	err := sys.Tasks.Schedule(core.TaskFunc(func() { second++ }), 10)
	expectViolation(t, err, core.ViolationTaskPending)

	b.Advance(200)
	if first != 1 || second != 0 {
		t.Errorf("first ran %d, second %d; want 1 and 0", first, second)
	}
}

func TestTaskScheduleWhilePendingTraps(t *testing.T) {
	_, sys := startedSystem(t, sim.Options{}, core.Config{})

	sys.Tasks.Schedule(core.TaskFunc(func() {}), 100)
	expectTrap(t, core.ViolationTaskPending, func() {
		sys.Tasks.Schedule(core.TaskFunc(func() {}), 100)
	})
}

func TestTaskCancel(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, core.Config{})

	var ran int
	sys.Tasks.Schedule(core.TaskFunc(func() { ran++ }), 100)
	sys.Tasks.Cancel()
	sys.Tasks.Cancel()
	b.Advance(1 << 25)

	if ran != 0 {
		t.Errorf("canceled task ran")
	}
	if sys.Tasks.IsScheduled() {
		t.Errorf("IsScheduled true after Cancel")
	}
}

// A task scheduling its successor from interrupt context.
func TestTaskReschedulesFromRun(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, core.Config{})

	var at []uint32
	var task core.TaskFunc
	task = func() {
		at = append(at, b.RTC.Counter())
		if len(at) < 4 {
			if err := sys.Tasks.Schedule(task, 25); err != nil {
				t.Errorf("Schedule from Run: %v", err)
			}
		}
	}
	sys.Tasks.Schedule(task, 25)
	b.Advance(1000)

	if len(at) != 4 || at[3] != 100 {
		t.Errorf("ran at %v, want every 25 ticks up to 100", at)
	}
}

func TestTaskTimeoutTooLong(t *testing.T) {
	_, sys := startedSystem(t, sim.Options{}, reportConfig())

	err := sys.Tasks.Schedule(core.TaskFunc(func() {}), core.MaxTimeout)
	expectViolation(t, err, core.ViolationTimeoutTooLong)
	if sys.Tasks.IsScheduled() {
		t.Errorf("rejected Schedule left a task pending")
	}
}
