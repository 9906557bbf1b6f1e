package core

// Logger receives diagnostic messages. Implementations must be safe to call
// from interrupt context on the target, which rules out blocking writers.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(string) {}

// NopLogger discards everything.
func NopLogger() Logger {
	return nopLogger{}
}
