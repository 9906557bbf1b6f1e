//go:build !tinygo

package core

// defaultLogger is silent on the host; the host binaries install a zap
// backed Logger.
func defaultLogger() Logger {
	return nopLogger{}
}
