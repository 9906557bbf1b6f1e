package core

import (
	"encoding/hex"

	"radiosoc/protocol"
)

// Event type codes recorded in the timing ring.
const (
	EvtOverflow     = 1  // counter overflow, v1 = new MSB tally
	EvtTimerStart   = 2  // timer started, v1 = timeout
	EvtTimerForced  = 3  // timer expired in software, v1 = timeout, v2 = ticks spent
	EvtTimerFire    = 4  // timer callback invoked
	EvtTimerOther   = 5  // sleep timer told of overflow or another compare
	EvtTimerCancel  = 6  // timer canceled
	EvtStaleCompare = 7  // compare event for a timer not in use
	EvtTaskSchedule = 8  // task scheduled, v1 = timeout
	EvtTaskRun      = 9  // task ran
	EvtSleep        = 10 // about to wait, v1 = timeout
	EvtWake         = 11 // woke, v1 = reason for wake
	EvtReason       = 12 // reason written, v1 = old, v2 = new
	EvtViolation    = 13 // contract violation, index = kind
)

const (
	TimingRingSize = 32 // last events kept for post-mortem
)

// EventName returns the dump label for a timing event type.
func EventName(evt uint8) string {
	switch evt {
	case EvtOverflow:
		return "OVERFLOW"
	case EvtTimerStart:
		return "TIMER_START"
	case EvtTimerForced:
		return "TIMER_FORCED"
	case EvtTimerFire:
		return "TIMER_FIRE"
	case EvtTimerOther:
		return "TIMER_OTHER"
	case EvtTimerCancel:
		return "TIMER_CANCEL"
	case EvtStaleCompare:
		return "STALE_COMPARE"
	case EvtTaskSchedule:
		return "TASK_SCHED"
	case EvtTaskRun:
		return "TASK_RUN"
	case EvtSleep:
		return "SLEEP"
	case EvtWake:
		return "WAKE"
	case EvtReason:
		return "REASON"
	case EvtViolation:
		return "VIOLATION!"
	default:
		return "UNKNOWN"
	}
}

// TimingRing keeps the most recent timing events. Recording never blocks
// and never allocates, so it is safe in interrupt handlers. A handler
// preempting a foreground Record can tear one slot.
type TimingRing struct {
	events   [TimingRingSize]protocol.TraceEvent
	head     uint8
	disabled bool
	clock    Counter
}

// NewTimingRing stamps events with the counter value. counter may be nil.
func NewTimingRing(counter Counter) *TimingRing {
	return &TimingRing{clock: counter}
}

// SetEnabled turns recording on or off.
func (r *TimingRing) SetEnabled(enabled bool) {
	r.disabled = !enabled
}

// Record captures an event.
func (r *TimingRing) Record(evt, index uint8, value1, value2 uint32) {
	if r == nil || r.disabled {
		return
	}
	var clock uint32
	if r.clock != nil && r.clock.IsTicking() {
		clock = uint32(r.clock.Ticks() & CounterMask)
	}
	idx := r.head
	r.events[idx] = protocol.TraceEvent{
		Type:   evt,
		Index:  index,
		Clock:  clock,
		Value1: value1,
		Value2: value2,
	}
	r.head = (idx + 1) % TimingRingSize
}

// Events returns the recorded events, oldest first.
func (r *TimingRing) Events() []protocol.TraceEvent {
	out := make([]protocol.TraceEvent, 0, TimingRingSize)
	start := r.head
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := r.events[(start+i)%TimingRingSize]
		if evt.Type == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// Dump writes the ring as text, oldest first.
func (r *TimingRing) Dump(log Logger) {
	log.Info("[TIMING] === Timing Ring Dump ===")
	for _, evt := range r.Events() {
		log.Info("[TIMING] " + EventName(evt.Type) +
			" idx=" + utoa(uint32(evt.Index)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	log.Info("[TIMING] === End Dump ===")
}

// DumpFrames writes each event as a hex encoded trace frame on its own
// line, prefixed with protocol.TraceLinePrefix.
func (r *TimingRing) DumpFrames(log Logger) {
	out := protocol.NewScratchOutput()
	for i, evt := range r.Events() {
		out.Reset()
		protocol.EncodeTraceFrame(out, uint8(i), evt)
		log.Info(protocol.TraceLinePrefix + hex.EncodeToString(out.Result()))
	}
}

// Clear empties the ring.
func (r *TimingRing) Clear() {
	for i := range r.events {
		r.events[i] = protocol.TraceEvent{}
	}
	r.head = 0
}
