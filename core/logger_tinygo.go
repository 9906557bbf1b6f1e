//go:build tinygo

package core

import "machine"

func defaultLogger() Logger {
	return &SerialLogger{}
}

// SerialLogger writes one line per message to machine.Serial. The level
// prefix is what radiosoc-monitor keys on.
type SerialLogger struct {
	Quiet bool // drop Debug
}

func (l *SerialLogger) log(level, msg string) {
	machine.Serial.Write([]byte(level))
	machine.Serial.Write([]byte(msg))
	machine.Serial.Write([]byte("\r\n"))
}

func (l *SerialLogger) Debug(msg string) {
	if !l.Quiet {
		l.log("[DEBUG] ", msg)
	}
}
func (l *SerialLogger) Info(msg string)  { l.log("[INFO]  ", msg) }
func (l *SerialLogger) Warn(msg string)  { l.log("[WARN]  ", msg) }
func (l *SerialLogger) Error(msg string) { l.log("[ERROR] ", msg) }
