package sim

import "radiosoc/core"

// NVIC latches interrupt lines into pending bits and runs handlers.
type NVIC struct {
	b        *Board
	enabled  [irqCount]bool
	pending  [irqCount]bool
	handlers [irqCount]func()
}

// SetHandler installs the vector for irq.
func (n *NVIC) SetHandler(irq core.IRQ, h func()) {
	n.handlers[irq] = h
}

func (n *NVIC) Enable(irq core.IRQ) {
	n.enabled[irq] = true
	n.b.dispatch()
}

func (n *NVIC) Disable(irq core.IRQ) {
	n.enabled[irq] = false
}

// Pend runs the handler at once from thread mode, or after the current
// handler returns.
func (n *NVIC) Pend(irq core.IRQ) {
	n.pending[irq] = true
	n.b.dispatch()
}

// IsEnabled reports whether irq is enabled.
func (n *NVIC) IsEnabled(irq core.IRQ) bool {
	return n.enabled[irq]
}

// IsPending reports whether irq is pending.
func (n *NVIC) IsPending(irq core.IRQ) bool {
	n.latchLines()
	return n.pending[irq]
}

func (n *NVIC) latchLines() {
	b := n.b
	if b.RTC.interruptLine() {
		n.pending[core.IRQTimer] = true
	}
	if b.LF.interruptLine() || b.HF.interruptLine() || b.POF.interruptLine() {
		n.pending[core.IRQPowerClock] = true
	}
	if b.Radio.interruptLine() {
		n.pending[core.IRQRadio] = true
	}
}

func (n *NVIC) next() (core.IRQ, bool) {
	n.latchLines()
	for i := 0; i < irqCount; i++ {
		if n.enabled[i] && n.pending[i] {
			return core.IRQ(i), true
		}
	}
	return 0, false
}
