// Package zaplog backs core.Logger with zap for the host tools.
package zaplog

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func Logger() *zap.Logger { return logger.Load() }

func SetLogger(l *zap.Logger) { logger.Store(l) }

// New builds the development logger the host tools share. Debug output is
// kept only when verbose.
func New(verbose bool) (*zap.Logger, error) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return c.Build()
}

// CoreLogger adapts a zap logger to core.Logger. Fields given here are
// attached to every message, e.g. the node name.
type CoreLogger struct {
	l *zap.Logger
}

func NewCoreLogger(l *zap.Logger, fields ...zap.Field) *CoreLogger {
	return &CoreLogger{l: l.WithOptions(zap.AddCallerSkip(1)).With(fields...)}
}

func (c *CoreLogger) Debug(msg string) { c.l.Debug(msg) }
func (c *CoreLogger) Info(msg string)  { c.l.Info(msg) }
func (c *CoreLogger) Warn(msg string)  { c.l.Warn(msg) }
func (c *CoreLogger) Error(msg string) { c.l.Error(msg) }
