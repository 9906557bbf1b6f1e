package power

// VoltageRange classifies the charge on the supply capacitor.
type VoltageRange uint8

const (
	BelowUltraLow    VoltageRange = iota // < 2.1V, near brownout
	UltraLowToLow                        // 2.1V to 2.3V
	LowToMedium                          // 2.3V to 2.5V
	MediumToHigh                         // 2.5V to 2.7V
	HighToNearExcess                     // 2.7V to 3.4V
	NearExcess                           // >= 3.4V
)

func (r VoltageRange) String() string {
	switch r {
	case BelowUltraLow:
		return "BelowUltraLow"
	case UltraLowToLow:
		return "UltraLowToLow"
	case LowToMedium:
		return "LowToMedium"
	case MediumToHigh:
		return "MediumToHigh"
	case HighToNearExcess:
		return "HighToNearExcess"
	case NearExcess:
		return "NearExcess"
	}
	return "Invalid"
}

const (
	nearExcessMillivolts = 3400
	excessMillivolts     = 3600
	ultraHighMillivolts  = 3200
)

// Manager answers "how much power do we have" for the application.
type Manager struct {
	monitor *Monitor
	vcc     VccReader
}

// NewManager returns a Manager. vcc may be nil; the levels above the
// comparator's range then always read false.
func NewManager(monitor *Monitor, vcc VccReader) *Manager {
	return &Manager{monitor: monitor, vcc: vcc}
}

func (p *Manager) EnterBrownoutDetectMode() {
	p.monitor.EnterBrownoutDetectMode()
}

func (p *Manager) vccAtLeast(mv uint32) bool {
	return p.vcc != nil && p.vcc.MeasureMillivolts() >= mv
}

func (p *Manager) IsPowerExcess() bool { return p.vccAtLeast(excessMillivolts) }
func (p *Manager) IsPowerNearExcess() bool { return p.vccAtLeast(nearExcessMillivolts) }
func (p *Manager) IsPowerAboveUltraHigh() bool { return p.vccAtLeast(ultraHighMillivolts) }

func (p *Manager) IsPowerAboveHigh() bool {
	return p.monitor.IsVddGreaterThanThreshold(Threshold2_7)
}

func (p *Manager) IsPowerAboveMedium() bool {
	return p.monitor.IsVddGreaterThanThreshold(Threshold2_5)
}

func (p *Manager) IsPowerAboveLow() bool {
	return p.monitor.IsVddGreaterThanThreshold(Threshold2_3)
}

func (p *Manager) IsPowerAboveUltraLow() bool {
	return p.monitor.IsVddGreaterThanThreshold(Threshold2_1)
}

// VoltageRange steps down through the levels. Each comparator step
// re-arms brownout detection when in detect mode.
func (p *Manager) VoltageRange() VoltageRange {
	switch {
	case p.IsPowerNearExcess():
		return NearExcess
	case p.IsPowerAboveHigh():
		return HighToNearExcess
	case p.IsPowerAboveMedium():
		return MediumToHigh
	case p.IsPowerAboveLow():
		return LowToMedium
	case p.IsPowerAboveUltraLow():
		return UltraLowToLow
	}
	return BelowUltraLow
}
