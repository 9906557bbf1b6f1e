package node

import (
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"radiosoc/core"
	"radiosoc/protocol"
)

func frameLine(seq uint8, evt protocol.TraceEvent) string {
	out := protocol.NewScratchOutput()
	protocol.EncodeTraceFrame(out, seq, evt)
	return "[INFO]  " + protocol.TraceLinePrefix + hex.EncodeToString(out.Result())
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		in    string
		level string
		text  string
	}{
		{"[DEBUG] LF clock running", "DEBUG", "LF clock running"},
		{"[INFO]  radiosoc node up", "INFO", "radiosoc node up"},
		{"[WARN]  clock started during timed sleep: HFClockStarted", "WARN", "clock started during timed sleep: HFClockStarted"},
		{"[ERROR] contract violation: bad timer index", "ERROR", "contract violation: bad timer index"},
		{"panic: boom", "", "panic: boom"},
	}
	for _, tt := range tests {
		got := ParseLine(tt.in)
		if got.Level != tt.level || got.Text != tt.text || got.Trace != nil || got.Err != nil {
			t.Errorf("ParseLine(%q) = %+v", tt.in, got)
		}
	}
}

func TestParseTraceLine(t *testing.T) {
	evt := protocol.TraceEvent{Type: core.EvtTimerFire, Index: 1, Clock: 350, Value1: 7, Value2: 300000}
	line := ParseLine(frameLine(3, evt))
	if line.Err != nil || line.Trace == nil {
		t.Fatalf("ParseLine = %+v", line)
	}
	if *line.Trace != evt || line.Seq != 3 {
		t.Errorf("decoded %+v seq %d", *line.Trace, line.Seq)
	}
	if got := FormatTrace(evt); got != "TIMER_FIRE idx=1 clock=350 v1=7 v2=300000" {
		t.Errorf("FormatTrace = %q", got)
	}
}

func TestParseBadTraceLine(t *testing.T) {
	if line := ParseLine("[INFO]  TRACE zz"); line.Err == nil {
		t.Errorf("bad hex accepted")
	}
	out := protocol.NewScratchOutput()
	protocol.EncodeTraceFrame(out, 0, protocol.TraceEvent{Type: core.EvtWake})
	frame := out.Result()
	frame[len(frame)-2] ^= 0xFF
	corrupt := "[INFO]  " + protocol.TraceLinePrefix + hex.EncodeToString(frame)
	if line := ParseLine(corrupt); !errors.Is(line.Err, protocol.ErrFrameCRC) {
		t.Errorf("corrupt frame: %v", line.Err)
	}
}

func TestNodeReadsLinesAndCountsDrops(t *testing.T) {
	evt := protocol.TraceEvent{Type: core.EvtSleep, Value1: 32768}
	input := strings.Join([]string{
		"[INFO]  radiosoc node up",
		frameLine(0, evt),
		frameLine(1, evt),
		frameLine(4, evt), // 2 and 3 lost
		frameLine(0, evt), // next dump
		frameLine(1, evt),
	}, "\r\n") + "\r\n"

	n := NewNode()
	if _, err := n.Next(); err == nil {
		t.Fatalf("Next before Attach succeeded")
	}
	n.Attach(io.NopCloser(strings.NewReader(input)))

	var traces int
	for {
		line, err := n.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if line.Err != nil {
			t.Fatalf("line error: %v", line.Err)
		}
		if line.Trace != nil {
			traces++
		}
	}
	if traces != 5 {
		t.Errorf("read %d frames, want 5", traces)
	}
	if n.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", n.Dropped())
	}
	if err := n.Close(); err != nil || n.IsConnected() {
		t.Errorf("Close: %v connected %v", err, n.IsConnected())
	}
}
