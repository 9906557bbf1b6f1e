package sim

import (
	"testing"

	"radiosoc/core"
	"radiosoc/power"
)

func TestComparator(t *testing.T) {
	b := New(Options{VddMillivolts: 2400})
	c := b.POF

	c.SetThreshold(power.Threshold2_5)
	if c.IsPOFEvent() {
		t.Fatalf("disabled comparator raised its event")
	}
	c.Enable()
	c.DelayForPOFEvent()
	if !c.IsPOFEvent() {
		t.Errorf("2.4V not below 2.5V")
	}

	c.ClearPOFEvent()
	c.SetThreshold(power.Threshold2_3)
	c.DelayForPOFEvent()
	if c.IsPOFEvent() {
		t.Errorf("2.4V reported below 2.3V")
	}
}

func TestComparatorInterrupt(t *testing.T) {
	b := New(Options{})
	var runs int
	b.NVIC.SetHandler(core.IRQPowerClock, func() {
		runs++
		b.POF.DisableInterrupt()
	})
	b.NVIC.Enable(core.IRQPowerClock)

	b.POF.SetThreshold(power.BrownoutThreshold)
	b.POF.EnableInterrupt()
	b.POF.Enable()
	b.POF.SetVdd(2200)
	if runs != 0 {
		t.Fatalf("interrupt above threshold")
	}
	b.POF.SetVdd(2000)
	if runs != 1 {
		t.Errorf("interrupt ran %d times, want 1", runs)
	}
}

func TestFlash(t *testing.T) {
	f := NewFlash(8)
	words := make([]uint32, 2)
	if err := f.ReadWords(0, words); err != nil || words[0] != 0xFFFFFFFF {
		t.Fatalf("erased read %#x, %v", words, err)
	}
	f.WriteWords(2, []uint32{0xF0F0F0F0, 0x12345678})
	f.WriteWords(2, []uint32{0xFF00FF00, 0xFFFFFFFF})
	f.ReadWords(2, words)
	if words[0] != 0xF000F000 || words[1] != 0x12345678 {
		t.Errorf("read %#x, want writes ANDed", words)
	}
	if f.Writes != 2 {
		t.Errorf("Writes = %d", f.Writes)
	}

	if err := f.WriteWords(7, words); err != power.ErrFlashRange {
		t.Errorf("write past end: %v", err)
	}
	if err := f.ReadWords(-1, words); err != power.ErrFlashRange {
		t.Errorf("read before start: %v", err)
	}
	f.Erase()
	f.ReadWords(2, words)
	if words[0] != 0xFFFFFFFF {
		t.Errorf("not erased: %#x", words[0])
	}
}
