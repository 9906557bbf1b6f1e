package core_test

import (
	"strings"
	"testing"

	"radiosoc/core"
	"radiosoc/sim"
)

func reportConfig() core.Config {
	return core.Config{Policy: core.PolicyReport}
}

// startedSystem returns a system whose LongClock is running on a stable LF
// clock, with the counter at opts.InitialCounter.
func startedSystem(t *testing.T, opts sim.Options, cfg core.Config) (*sim.Board, *core.System) {
	t.Helper()
	b, sys := sim.NewSystem(opts, cfg)
	if err := sys.Clocks.StartLongClockWithSleepUntilRunning(); err != nil {
		t.Fatalf("StartLongClockWithSleepUntilRunning: %v", err)
	}
	return b, sys
}

// expectTrap runs fn and requires it to panic with a violation of kind.
func expectTrap(t *testing.T, kind core.Violation, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(*core.ContractError)
		if !ok {
			t.Fatalf("expected trap %q, recovered %v", kind, r)
		}
		if err.Kind != kind {
			t.Fatalf("trapped %q, want %q", err.Kind, kind)
		}
	}()
	fn()
}

// expectViolation requires err to be a reported violation of kind.
func expectViolation(t *testing.T, err error, kind core.Violation) {
	t.Helper()
	ce, ok := err.(*core.ContractError)
	if !ok {
		t.Fatalf("expected violation %q, got %v", kind, err)
	}
	if ce.Kind != kind {
		t.Fatalf("violation %q, want %q", ce.Kind, kind)
	}
}

type captureLogger struct {
	lines []string
}

func (l *captureLogger) Debug(msg string) { l.lines = append(l.lines, "DEBUG "+msg) }
func (l *captureLogger) Info(msg string)  { l.lines = append(l.lines, "INFO "+msg) }
func (l *captureLogger) Warn(msg string)  { l.lines = append(l.lines, "WARN "+msg) }
func (l *captureLogger) Error(msg string) { l.lines = append(l.lines, "ERROR "+msg) }

func (l *captureLogger) contains(s string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}
