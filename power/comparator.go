// Package power watches the supply of a node running from a capacitor
// charged by a solar cell. One power-fail comparator is multiplexed between
// measuring Vdd against a threshold and detecting brownout.
package power

// Threshold is a power-fail comparator trip level.
type Threshold uint8

const (
	Threshold2_1 Threshold = iota
	Threshold2_3
	Threshold2_5
	Threshold2_7
	Threshold2_8
)

// BrownoutThreshold is the lowest level the comparator supports, used for
// brownout detection.
const BrownoutThreshold = Threshold2_1

// Millivolts returns the trip level.
func (t Threshold) Millivolts() uint32 {
	switch t {
	case Threshold2_1:
		return 2100
	case Threshold2_3:
		return 2300
	case Threshold2_5:
		return 2500
	case Threshold2_7:
		return 2700
	case Threshold2_8:
		return 2800
	}
	return 0
}

// Comparator is the POFCON peripheral. Its event means Vdd is below the
// threshold; the interrupt shares the POWER_CLOCK vector.
type Comparator interface {
	SetThreshold(t Threshold)
	Enable()
	Disable()
	IsPOFEvent() bool
	ClearPOFEvent()
	EnableInterrupt()
	DisableInterrupt()
	IsInterruptEnabled() bool

	// DelayForPOFEvent waits the few microseconds the comparator needs
	// after Enable before its event is valid.
	DelayForPOFEvent()
}

// VccReader measures the supply with the ADC, for levels above the
// comparator's range.
type VccReader interface {
	MeasureMillivolts() uint32
}
