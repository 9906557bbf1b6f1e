package zaplog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"radiosoc/core"
)

func TestCoreLogger(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	var log core.Logger = NewCoreLogger(zap.New(obs), zap.String("node", "n1"))

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	entries := logs.AllUntimed()
	want := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	if len(entries) != len(want) {
		t.Fatalf("logged %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("entry %d level %v, want %v", i, e.Level, want[i])
		}
		if e.ContextMap()["node"] != "n1" {
			t.Errorf("entry %d lacks the node field: %v", i, e.ContextMap())
		}
	}
}

func TestSetLogger(t *testing.T) {
	l := zap.NewNop()
	SetLogger(l)
	if Logger() != l {
		t.Errorf("Logger did not return the stored logger")
	}
}

func TestNewLevel(t *testing.T) {
	l, err := New(false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("debug enabled without verbose")
	}
	l, _ = New(true)
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("debug disabled with verbose")
	}
}
