//go:build tinygo

package core

import "runtime/interrupt"

// InterruptState is the saved PRIMASK.
type InterruptState = interrupt.State

// DisableInterrupts masks all interrupts and returns the previous state.
func DisableInterrupts() InterruptState {
	return interrupt.Disable()
}

// RestoreInterrupts restores a state returned by DisableInterrupts.
func RestoreInterrupts(state InterruptState) {
	interrupt.Restore(state)
}
