package core_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"radiosoc/core"
	"radiosoc/protocol"
	"radiosoc/sim"
)

func fillRing(r *core.TimingRing, n int) {
	for i := 0; i < n; i++ {
		r.Record(uint8(1+i%core.EvtViolation), uint8(i), uint32(i)*1000, uint32(i))
	}
}

func TestTimingRingWraps(t *testing.T) {
	r := core.NewTimingRing(nil)
	fillRing(r, 40)

	evts := r.Events()
	if len(evts) != core.TimingRingSize {
		t.Fatalf("kept %d events, want %d", len(evts), core.TimingRingSize)
	}
	for i, evt := range evts {
		if want := uint8(i + 40 - core.TimingRingSize); evt.Index != want {
			t.Fatalf("event %d has index %d, want %d", i, evt.Index, want)
		}
	}
}

func TestTimingRingDump(t *testing.T) {
	r := core.NewTimingRing(nil)
	fillRing(r, 3)

	var log captureLogger
	r.Dump(&log)
	if len(log.lines) != 5 {
		t.Fatalf("dumped %d lines, want 5: %v", len(log.lines), log.lines)
	}
	if want := "INFO [TIMING] TIMER_START idx=1 clock=0 v1=1000 v2=1"; log.lines[2] != want {
		t.Errorf("line %q, want %q", log.lines[2], want)
	}
}

func TestTimingRingDumpFrames(t *testing.T) {
	r := core.NewTimingRing(nil)
	fillRing(r, 20)

	var log captureLogger
	r.DumpFrames(&log)
	evts := r.Events()
	if len(log.lines) != len(evts) {
		t.Fatalf("dumped %d frames, want %d", len(log.lines), len(evts))
	}
	for i, line := range log.lines {
		payload, ok := strings.CutPrefix(line, "INFO "+protocol.TraceLinePrefix)
		if !ok {
			t.Fatalf("line %q lacks the trace prefix", line)
		}
		frame, err := hex.DecodeString(payload)
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		seq, evt, err := protocol.DecodeTraceFrame(frame)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if seq != uint8(i)&protocol.MessageSeqMask {
			t.Errorf("frame %d seq %d", i, seq)
		}
		if evt != evts[i] {
			t.Errorf("frame %d decoded %+v, want %+v", i, evt, evts[i])
		}
	}
}

func TestTimingRingDisableAndClear(t *testing.T) {
	r := core.NewTimingRing(nil)
	r.SetEnabled(false)
	fillRing(r, 5)
	if n := len(r.Events()); n != 0 {
		t.Errorf("disabled ring kept %d events", n)
	}

	r.SetEnabled(true)
	fillRing(r, 5)
	r.Clear()
	if n := len(r.Events()); n != 0 {
		t.Errorf("cleared ring kept %d events", n)
	}

	var nilRing *core.TimingRing
	nilRing.Record(core.EvtOverflow, 0, 0, 0)
}

func TestTimingRingStampsCounter(t *testing.T) {
	b, sys := startedSystem(t, sim.Options{}, core.Config{})
	sys.Trace.Clear()

	b.Advance(300)
	sys.Timers.Start(core.SecondTimer, 50, core.TimerCallbackFunc(func(core.TimerInterruptReason) {}))
	b.Advance(100)

	var fire *protocol.TraceEvent
	for _, evt := range sys.Trace.Events() {
		if evt.Type == core.EvtTimerFire {
			fire = &evt
		}
	}
	if fire == nil {
		t.Fatalf("no TIMER_FIRE in %+v", sys.Trace.Events())
	}
	if fire.Clock != 350 || fire.Index != uint8(core.SecondTimer) {
		t.Errorf("TIMER_FIRE %+v, want clock 350 index 1", *fire)
	}
}

func TestEventName(t *testing.T) {
	if got := core.EventName(core.EvtViolation); got != "VIOLATION!" {
		t.Errorf("EventName(EvtViolation) = %q", got)
	}
	if got := core.EventName(0); got != "UNKNOWN" {
		t.Errorf("EventName(0) = %q", got)
	}
}
