// Package metrics exports node statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"radiosoc/core"
)

var reasons = func() []core.ReasonForWake {
	var rs []core.ReasonForWake
	for r := core.Cleared; r <= core.Unknown; r++ {
		rs = append(rs, r)
	}
	return rs
}()

// StatsCollector reads core.Stats on every scrape.
type StatsCollector struct {
	stats func() core.Stats

	overflows, timerFires, forcedExpiries, otherWakes *prometheus.Desc
	taskRuns, sleeps, spuriousWakes, violations       *prometheus.Desc
	wakeReasons                                       *prometheus.Desc
}

// NewStatsCollector labels every series with node.
func NewStatsCollector(node string, stats func() core.Stats) *StatsCollector {
	labels := prometheus.Labels{"node": node}
	desc := func(name, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc("radiosoc_"+name, help, variable, labels)
	}
	return &StatsCollector{
		stats:          stats,
		overflows:      desc("counter_overflows_total", "RTC overflows serviced."),
		timerFires:     desc("timer_fires_total", "Timer callbacks for expiry."),
		forcedExpiries: desc("forced_expiries_total", "Timeouts too short for the compare hardware."),
		otherWakes:     desc("sleep_timer_other_total", "Sleep timer told of an overflow or another compare."),
		taskRuns:       desc("task_runs_total", "Tasks run by the task timer."),
		sleeps:         desc("sleeps_total", "Timed sleeps."),
		spuriousWakes:  desc("spurious_wakes_total", "SleepDuration wakes that were not the timer."),
		violations:     desc("contract_violations_total", "Contract violations."),
		wakeReasons:    desc("wake_reasons_total", "Reason for wake at the end of each sleep.", "reason"),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.overflows
	ch <- c.timerFires
	ch <- c.forcedExpiries
	ch <- c.otherWakes
	ch <- c.taskRuns
	ch <- c.sleeps
	ch <- c.spuriousWakes
	ch <- c.violations
	ch <- c.wakeReasons
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.stats()
	counter := func(d *prometheus.Desc, v uint32, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(c.overflows, st.Overflows)
	counter(c.timerFires, st.TimerFires)
	counter(c.forcedExpiries, st.ForcedExpiries)
	counter(c.otherWakes, st.OtherWakes)
	counter(c.taskRuns, st.TaskRuns)
	counter(c.sleeps, st.Sleeps)
	counter(c.spuriousWakes, st.SpuriousWakes)
	counter(c.violations, st.Violations)
	for _, r := range reasons {
		counter(c.wakeReasons, st.WakeReasons[r], r.String())
	}
}

// TraceMetrics counts what radiosoc-monitor reads off a node's UART.
type TraceMetrics struct {
	Events        *prometheus.CounterVec
	Lines         *prometheus.CounterVec
	DroppedFrames prometheus.Gauge
	BadFrames     prometheus.Counter
}

func NewTraceMetrics(reg prometheus.Registerer) *TraceMetrics {
	f := promauto.With(reg)
	return &TraceMetrics{
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "radiosoc_trace_events_total",
			Help: "Timing-ring events read from the node, by type.",
		}, []string{"event"}),
		Lines: f.NewCounterVec(prometheus.CounterOpts{
			Name: "radiosoc_log_lines_total",
			Help: "Log lines read from the node, by level.",
		}, []string{"level"}),
		DroppedFrames: f.NewGauge(prometheus.GaugeOpts{
			Name: "radiosoc_trace_frames_dropped",
			Help: "Trace frames lost, judged by sequence gaps.",
		}),
		BadFrames: f.NewCounter(prometheus.CounterOpts{
			Name: "radiosoc_trace_frames_bad_total",
			Help: "Trace lines that failed to decode.",
		}),
	}
}
