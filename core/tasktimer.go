package core

// Task is run once by the TaskTimer, in interrupt context.
type Task interface {
	Run()
}

// TaskFunc adapts a function to Task.
type TaskFunc func()

func (f TaskFunc) Run() {
	f()
}

// TaskTimer runs a single deferred task off the third compare register. At
// most one task is scheduled at a time.
type TaskTimer struct {
	clock      *LongClock
	compare    CompareRegister
	nvic       InterruptController
	minTimeout OSTime
	contract   *contract
	stats      *statCounters
	trace      *TimingRing

	task      Task
	scheduled bool
	forced    bool
}

// Schedule runs task after timeout ticks. Scheduling while a task is
// pending is a violation and leaves the pending task in place.
func (t *TaskTimer) Schedule(task Task, timeout OSTime) error {
	if t.scheduled {
		return t.contract.violate(ViolationTaskPending, "")
	}
	if timeout >= MaxTimeout {
		return t.contract.violate(ViolationTimeoutTooLong, "task timeout "+utoa(uint32(timeout)))
	}
	t.task = task
	t.forced = false
	t.scheduled = true
	t.trace.Record(EvtTaskSchedule, 0, uint32(timeout), 0)

	t.compare.DisableInterruptAndClearEvent()
	before := t.clock.OSClockNowTime()
	t.compare.Set(before + timeout)
	after := t.clock.OSClockNowTime()
	if (after-before)&CounterMask+t.minTimeout > timeout {
		t.forced = true
		t.stats.forcedExpiries.Add(1)
		t.nvic.Pend(IRQTimer)
	}
	t.compare.EnableInterrupt()
	return nil
}

// Cancel drops the scheduled task, if any.
func (t *TaskTimer) Cancel() {
	t.compare.DisableInterruptAndClearEvent()
	t.scheduled = false
	t.forced = false
	t.task = nil
}

// IsScheduled reports whether a task is pending.
func (t *TaskTimer) IsScheduled() bool {
	return t.scheduled
}

// ISR runs the task if its compare matched or it was forced.
func (t *TaskTimer) ISR() {
	fired := t.forced
	if t.compare.IsEvent() {
		t.compare.DisableInterruptAndClearEvent()
		fired = true
	}
	if !fired || !t.scheduled {
		return
	}
	task := t.task
	t.scheduled = false
	t.forced = false
	t.task = nil
	t.stats.taskRuns.Add(1)
	t.trace.Record(EvtTaskRun, 0, 0, 0)
	if task != nil {
		task.Run()
	}
}
