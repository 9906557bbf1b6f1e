package core_test

import (
	"errors"
	"testing"

	"radiosoc/core"
	"radiosoc/sim"
)

func TestContractErrorString(t *testing.T) {
	err := &core.ContractError{Kind: core.ViolationTaskPending}
	if got := err.Error(); got != "contract violation: task already scheduled" {
		t.Errorf("Error() = %q", got)
	}
	err.Detail = "again"
	if got := err.Error(); got != "contract violation: task already scheduled: again" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, core.ErrContract) {
		t.Errorf("errors.Is(err, ErrContract) = false")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want core.Policy
		err  bool
	}{
		{"", core.PolicyTrap, false},
		{"trap", core.PolicyTrap, false},
		{"report", core.PolicyReport, false},
		{"ignore", core.PolicyTrap, true},
	}
	for _, tt := range tests {
		got, err := core.ParsePolicy(tt.in)
		if got != tt.want || (err != nil) != tt.err {
			t.Errorf("ParsePolicy(%q) = %v, %v", tt.in, got, err)
		}
		if err == nil && got.String() != tt.want.String() {
			t.Errorf("round trip of %q gave %q", tt.in, got.String())
		}
	}
}

// A fault handler that returns degrades to reporting.
func TestReturningFaultHandler(t *testing.T) {
	var faults []core.Violation
	cfg := core.Config{Fault: func(err *core.ContractError) { faults = append(faults, err.Kind) }}
	_, sys := startedSystem(t, sim.Options{}, cfg)

	sys.Tasks.Schedule(core.TaskFunc(func() {}), 100)
	err := sys.Tasks.Schedule(core.TaskFunc(func() {}), 100)

	expectViolation(t, err, core.ViolationTaskPending)
	if len(faults) != 1 || faults[0] != core.ViolationTaskPending {
		t.Errorf("fault handler saw %v", faults)
	}
	if !errors.Is(sys.LastViolation(), core.ErrContract) {
		t.Errorf("LastViolation = %v", sys.LastViolation())
	}
	if sys.Stats().Violations != 1 {
		t.Errorf("Violations = %d, want 1", sys.Stats().Violations)
	}
}

func TestViolationLogged(t *testing.T) {
	log := &captureLogger{}
	cfg := reportConfig()
	cfg.Logger = log
	_, sys := startedSystem(t, sim.Options{}, cfg)

	sys.Timers.Start(core.TimerIndex(5), 10, nil)
	if !log.contains("ERROR contract violation: bad timer index") {
		t.Errorf("violation not logged: %v", log.lines)
	}
}
