// Package services holds small application services built on the core
// timers: a one-slot mailbox between interrupt and thread context, and LED
// flashers.
package services

import "radiosoc/core"

// MailContents is a unit of work handed from an ISR to the main loop.
type MailContents uint32

// Mailbox holds at most one item. Put and Fetch run with interrupts masked
// so either side may be an interrupt handler.
type Mailbox struct {
	item   MailContents
	isItem bool
}

// TryPut stores item unless the mailbox is full.
func (m *Mailbox) TryPut(item MailContents) bool {
	state := core.DisableInterrupts()
	defer core.RestoreInterrupts(state)
	if m.isItem {
		return false
	}
	m.item = item
	m.isItem = true
	return true
}

// Fetch removes and returns the item, if any.
func (m *Mailbox) Fetch() (MailContents, bool) {
	state := core.DisableInterrupts()
	defer core.RestoreInterrupts(state)
	if !m.isItem {
		return 0, false
	}
	m.isItem = false
	return m.item, true
}

// IsMail reports whether an item is waiting.
func (m *Mailbox) IsMail() bool {
	return m.isItem
}

// IsFull is IsMail: the mailbox has one slot.
func (m *Mailbox) IsFull() bool {
	return m.isItem
}
