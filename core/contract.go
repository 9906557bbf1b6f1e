package core

import (
	"errors"
	"sync/atomic"
)

// ErrContract matches every *ContractError via errors.Is.
var ErrContract = errors.New("contract violation")

// Violation identifies a broken usage contract.
type Violation uint8

const (
	ViolationNone Violation = iota
	ViolationBadTimerIndex
	ViolationTimeoutTooLong
	ViolationTimerAlreadyStarted
	ViolationTaskPending
	ViolationSleepTimerReexpired
	ViolationTimerDuringClockStart
	ViolationTimeoutNotSane
	ViolationClockNotStarted
	ViolationClockNotRunning
	ViolationClockAlreadyRunning
	ViolationStaleClockEvent
	ViolationInterruptEnabled
	ViolationFutureTime
	ViolationDeltaOverflow
	ViolationClockWentBackwards
)

func (v Violation) String() string {
	switch v {
	case ViolationNone:
		return "none"
	case ViolationBadTimerIndex:
		return "bad timer index"
	case ViolationTimeoutTooLong:
		return "timeout exceeds compare width"
	case ViolationTimerAlreadyStarted:
		return "timer already started"
	case ViolationTaskPending:
		return "task already scheduled"
	case ViolationSleepTimerReexpired:
		return "sleep timer expired twice before consumption"
	case ViolationTimerDuringClockStart:
		return "timer in use during clock startup"
	case ViolationTimeoutNotSane:
		return "timeout exceeds sane maximum"
	case ViolationClockNotStarted:
		return "clock not started"
	case ViolationClockNotRunning:
		return "clock not running"
	case ViolationClockAlreadyRunning:
		return "clock already running"
	case ViolationStaleClockEvent:
		return "stale clock started event"
	case ViolationInterruptEnabled:
		return "interrupt unexpectedly enabled"
	case ViolationFutureTime:
		return "earlier time is in the future"
	case ViolationDeltaOverflow:
		return "time difference exceeds MaxDeltaTime"
	case ViolationClockWentBackwards:
		return "clock went backwards"
	default:
		return "unknown violation"
	}
}

// ContractError is a programmer error detected at run time.
type ContractError struct {
	Kind   Violation
	Detail string
}

func (e *ContractError) Error() string {
	if e.Detail == "" {
		return "contract violation: " + e.Kind.String()
	}
	return "contract violation: " + e.Kind.String() + ": " + e.Detail
}

// Is reports ErrContract as a match.
func (e *ContractError) Is(target error) bool {
	return target == ErrContract
}

// Policy selects what a contract violation does.
type Policy uint8

const (
	// PolicyTrap hands the violation to the fault handler (development).
	PolicyTrap Policy = iota

	// PolicyReport returns the violation as an error and otherwise leaves
	// state untouched (production). A double Start is a silent no-op if the
	// caller ignores the error.
	PolicyReport
)

func (p Policy) String() string {
	if p == PolicyReport {
		return "report"
	}
	return "trap"
}

// ParsePolicy accepts "trap" or "report".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "trap", "":
		return PolicyTrap, nil
	case "report":
		return PolicyReport, nil
	}
	return PolicyTrap, errors.New("unknown contract policy: " + s)
}

// FaultHandler halts on a trapped violation. It should not return; if it
// does, the violation is reported like PolicyReport.
type FaultHandler func(err *ContractError)

// PanicFault is the default fault handler.
func PanicFault(err *ContractError) {
	panic(err)
}

type contract struct {
	policy Policy
	fault  FaultHandler
	log    Logger
	trace  *TimingRing
	stats  *statCounters
	last   atomic.Pointer[ContractError]
}

// violate records a violation and applies the policy. The returned error
// is always non-nil.
func (c *contract) violate(kind Violation, detail string) error {
	err := &ContractError{Kind: kind, Detail: detail}
	c.last.Store(err)
	c.stats.violations.Add(1)
	c.trace.Record(EvtViolation, uint8(kind), 0, 0)
	c.log.Error(err.Error())
	if c.policy == PolicyTrap {
		c.fault(err)
	}
	return err
}
