//go:build !tinygo

package core

// InterruptState is the saved interrupt mask.
type InterruptState uintptr

// DisableInterrupts is a no-op on the host: the simulator runs handlers on
// the caller's goroutine, never concurrently with it.
func DisableInterrupts() InterruptState {
	return 0
}

// RestoreInterrupts is a no-op on the host.
func RestoreInterrupts(state InterruptState) {}
