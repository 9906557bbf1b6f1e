package services

import "radiosoc/core"

// LEDFlasherTask flashes a single LED with the task timer, leaving both
// one-shot timers to the application.
type LEDFlasherTask struct {
	led   LED
	tasks *core.TaskTimer
}

func NewLEDFlasherTask(led LED, tasks *core.TaskTimer) *LEDFlasherTask {
	return &LEDFlasherTask{led: led, tasks: tasks}
}

// FlashByAmount lights the LED and schedules it off. It returns
// ErrFlashing if a flash is in progress.
func (f *LEDFlasherTask) FlashByAmount(amount uint32) error {
	if f.tasks.IsScheduled() {
		return ErrFlashing
	}
	ticks, err := AmountInTicks(amount)
	if err != nil {
		return err
	}
	f.led.Set(true)
	return f.tasks.Schedule(f, ticks)
}

// Run is the task: LED off.
func (f *LEDFlasherTask) Run() {
	f.led.Set(false)
}
