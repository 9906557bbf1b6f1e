package sim

import "radiosoc/power"

// Comparator is the power-fail comparator. While enabled it raises its
// event whenever Vdd is below the threshold.
type Comparator struct {
	b         *Board
	vdd       uint32
	threshold power.Threshold
	on        bool
	event     bool
	enabled   bool
}

// SetVdd changes the supply voltage.
func (c *Comparator) SetVdd(millivolts uint32) {
	c.vdd = millivolts
	c.evaluate()
	c.b.dispatch()
}

// Vdd returns the supply voltage.
func (c *Comparator) Vdd() uint32 {
	return c.vdd
}

// MeasureMillivolts reads the supply as the SAADC would.
func (c *Comparator) MeasureMillivolts() uint32 {
	return c.vdd
}

func (c *Comparator) SetThreshold(t power.Threshold) {
	c.threshold = t
	c.evaluate()
}

func (c *Comparator) Enable() {
	c.on = true
	c.evaluate()
	c.b.dispatch()
}

func (c *Comparator) Disable() {
	c.on = false
}

func (c *Comparator) IsPOFEvent() bool {
	return c.event
}

func (c *Comparator) ClearPOFEvent() {
	c.event = false
}

func (c *Comparator) EnableInterrupt() {
	c.enabled = true
	c.b.dispatch()
}

func (c *Comparator) DisableInterrupt() {
	c.enabled = false
}

// IsInterruptEnabled reports whether the warning raises POWER_CLOCK.
func (c *Comparator) IsInterruptEnabled() bool {
	return c.enabled
}

// IsEnabled reports whether the comparator is on.
func (c *Comparator) IsEnabled() bool {
	return c.on
}

func (c *Comparator) DelayForPOFEvent() {
	c.evaluate()
}

func (c *Comparator) evaluate() {
	if c.on && c.vdd < c.threshold.Millivolts() {
		c.event = true
	}
}

func (c *Comparator) interruptLine() bool {
	return c.event && c.enabled
}

// Flash is word-addressed NOR flash: erased words read 0xFFFFFFFF and a
// write can only clear bits.
type Flash struct {
	words  []uint32
	Writes int
}

// NewFlash returns an erased flash of n words.
func NewFlash(n int) *Flash {
	f := &Flash{words: make([]uint32, n)}
	f.Erase()
	return f
}

// Erase sets every word to 0xFFFFFFFF.
func (f *Flash) Erase() {
	for i := range f.words {
		f.words[i] = 0xFFFFFFFF
	}
}

func (f *Flash) ReadWords(index int, words []uint32) error {
	if index < 0 || index+len(words) > len(f.words) {
		return power.ErrFlashRange
	}
	copy(words, f.words[index:])
	return nil
}

func (f *Flash) WriteWords(index int, words []uint32) error {
	if index < 0 || index+len(words) > len(f.words) {
		return power.ErrFlashRange
	}
	for i, w := range words {
		f.words[index+i] &= w
	}
	f.Writes++
	return nil
}
