package core

// ReasonForWake records why the last sleep ended. Its declaration order is
// not its priority; Arbitrate decides which write wins.
type ReasonForWake uint32

const (
	Cleared ReasonForWake = iota
	HFClockStarted
	LFClockStarted
	SleepTimerExpired
	MsgReceived
	CounterOverflowOrOtherTimerExpired
	BrownoutWarning
	Unknown

	reasonCount
)

func (r ReasonForWake) String() string {
	switch r {
	case Cleared:
		return "Cleared"
	case HFClockStarted:
		return "HFClockStarted"
	case LFClockStarted:
		return "LFClockStarted"
	case SleepTimerExpired:
		return "SleepTimerExpired"
	case MsgReceived:
		return "MsgReceived"
	case CounterOverflowOrOtherTimerExpired:
		return "CounterOverflowOrOtherTimerExpired"
	case BrownoutWarning:
		return "BrownoutWarning"
	case Unknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// Arbitrate returns the reason that results when incoming is written over
// existing. A non-zero Violation means the write is illegal; existing is
// then returned unchanged.
//
// Priority, highest first: clock started (written only when no timer is in
// use), MsgReceived, SleepTimerExpired, CounterOverflowOrOtherTimerExpired,
// BrownoutWarning, Unknown, Cleared.
func Arbitrate(existing, incoming ReasonForWake) (ReasonForWake, Violation) {
	switch incoming {
	case HFClockStarted, LFClockStarted:
		return incoming, ViolationNone

	case MsgReceived:
		switch existing {
		case HFClockStarted, LFClockStarted:
			return existing, ViolationNone
		}
		return MsgReceived, ViolationNone

	case SleepTimerExpired:
		switch existing {
		case HFClockStarted, LFClockStarted:
			return existing, ViolationTimerDuringClockStart
		case SleepTimerExpired:
			// A second expiry before anyone consumed the first.
			return existing, ViolationSleepTimerReexpired
		case MsgReceived:
			return existing, ViolationNone
		}
		return SleepTimerExpired, ViolationNone

	case CounterOverflowOrOtherTimerExpired:
		switch existing {
		case HFClockStarted, LFClockStarted:
			return existing, ViolationTimerDuringClockStart
		case Cleared:
			return incoming, ViolationNone
		}
		return existing, ViolationNone

	case BrownoutWarning:
		switch existing {
		case Cleared, Unknown:
			return incoming, ViolationNone
		}
		return existing, ViolationNone

	case Unknown:
		if existing == Cleared {
			return incoming, ViolationNone
		}
		return existing, ViolationNone

	case Cleared:
		return Cleared, ViolationNone
	}
	return existing, ViolationNone
}
