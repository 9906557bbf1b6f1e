package core

import "sync/atomic"

// Stats is a snapshot of the event counters a System keeps. Counters wrap.
type Stats struct {
	Overflows      uint32
	TimerFires     uint32
	ForcedExpiries uint32
	OtherWakes     uint32 // sleep timer callbacks for overflow or another compare
	TaskRuns       uint32
	Sleeps         uint32
	SpuriousWakes  uint32 // SleepDuration wakes that were not the timer
	Violations     uint32

	// WakeReasons counts the reason observed at the end of each sleep,
	// indexed by ReasonForWake.
	WakeReasons [reasonCount]uint32
}

type statCounters struct {
	overflows      atomic.Uint32
	timerFires     atomic.Uint32
	forcedExpiries atomic.Uint32
	otherWakes     atomic.Uint32
	taskRuns       atomic.Uint32
	sleeps         atomic.Uint32
	spuriousWakes  atomic.Uint32
	violations     atomic.Uint32
	wakeReasons    [reasonCount]atomic.Uint32
}

func (s *statCounters) snapshot() Stats {
	st := Stats{
		Overflows:      s.overflows.Load(),
		TimerFires:     s.timerFires.Load(),
		ForcedExpiries: s.forcedExpiries.Load(),
		OtherWakes:     s.otherWakes.Load(),
		TaskRuns:       s.taskRuns.Load(),
		Sleeps:         s.sleeps.Load(),
		SpuriousWakes:  s.spuriousWakes.Load(),
		Violations:     s.violations.Load(),
	}
	for i := range s.wakeReasons {
		st.WakeReasons[i] = s.wakeReasons[i].Load()
	}
	return st
}
