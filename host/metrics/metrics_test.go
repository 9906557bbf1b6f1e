package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"radiosoc/core"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := make(map[string]map[string]float64)
	for _, mf := range families {
		values := make(map[string]float64)
		for _, m := range mf.GetMetric() {
			key := ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "node" {
					key = lp.GetValue()
				}
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
		out[mf.GetName()] = values
	}
	return out
}

func TestStatsCollector(t *testing.T) {
	st := core.Stats{Overflows: 2, Sleeps: 9, Violations: 1}
	st.WakeReasons[core.SleepTimerExpired] = 7
	st.WakeReasons[core.MsgReceived] = 2

	reg := prometheus.NewRegistry()
	reg.MustRegister(NewStatsCollector("n1", func() core.Stats { return st }))
	got := gather(t, reg)

	if got["radiosoc_counter_overflows_total"][""] != 2 || got["radiosoc_sleeps_total"][""] != 9 {
		t.Errorf("counters %v", got)
	}
	wakes := got["radiosoc_wake_reasons_total"]
	if len(wakes) != 8 || wakes["SleepTimerExpired"] != 7 || wakes["MsgReceived"] != 2 {
		t.Errorf("wake reasons %v", wakes)
	}

	// Read on every scrape.
	st.Sleeps = 10
	if got := gather(t, reg); got["radiosoc_sleeps_total"][""] != 10 {
		t.Errorf("stale sleeps %v", got["radiosoc_sleeps_total"])
	}
}

func TestTraceMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTraceMetrics(reg)
	m.Events.WithLabelValues("WAKE").Inc()
	m.Events.WithLabelValues("WAKE").Inc()
	m.Lines.WithLabelValues("WARN").Inc()
	m.DroppedFrames.Set(3)

	got := gather(t, reg)
	if got["radiosoc_trace_events_total"]["WAKE"] != 2 ||
		got["radiosoc_log_lines_total"]["WARN"] != 1 ||
		got["radiosoc_trace_frames_dropped"][""] != 3 {
		t.Errorf("metrics %v", got)
	}
}
