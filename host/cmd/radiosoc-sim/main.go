package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"radiosoc/host/bench"
	"radiosoc/host/metrics"
	"radiosoc/host/scenario"
	"radiosoc/host/zaplog"
	"radiosoc/power"
	"radiosoc/services"
)

var (
	config  = flag.String("config", "", "Scenario file (TOML); built-in defaults when empty")
	verbose = flag.Bool("verbose", false, "Enable debug logging")
	ledPin  = flag.String("led", "", "Mirror the node LED on this GPIO, e.g. GPIO17")
	serve   = flag.String("serve", "", "After the run, serve /metrics on this address")
	name    = flag.String("node", "sim", "Node label for metrics and logs")
)

func main() {
	flag.Parse()

	log, err := zaplog.New(*verbose)
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
	defer log.Sync()

	s := scenario.Default()
	if *config != "" {
		s, err = scenario.Load(*config)
		if err != nil {
			log.Fatal("failed to load scenario", zap.String("file", *config), zap.Error(err))
		}
	}

	var led services.LED
	var pin *bench.PinLED
	if *ledPin != "" {
		pin, err = bench.OpenLED(*ledPin)
		if err != nil {
			log.Fatal("failed to open LED pin", zap.String("pin", *ledPin), zap.Error(err))
		}
		led = pin
	}

	log.Info("running scenario",
		zap.Int("cycles", s.Run.Cycles),
		zap.Uint32("sleep_ms", s.Run.SleepMs),
		zap.String("policy", s.Node.Policy))

	res, err := scenario.Run(s, zaplog.NewCoreLogger(log, zap.String("node", *name)), led)
	if err != nil {
		log.Error("scenario failed", zap.Error(err))
		if res == nil {
			os.Exit(1)
		}
	}
	if pin != nil && pin.Err() != nil {
		log.Warn("LED pin errors", zap.Error(pin.Err()))
	}

	report(log, res)
	if *verbose {
		res.System.Trace.Dump(zaplog.NewCoreLogger(log, zap.String("node", *name)))
	}

	if *serve != "" {
		prometheus.MustRegister(metrics.NewStatsCollector(*name, res.System.Stats))
		log.Info("serving metrics", zap.String("address", *serve))
		http.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(*serve, nil)
		log.Fatal("failed to serve metrics", zap.Error(err))
	}
	if err != nil || res.System.LastViolation() != nil {
		os.Exit(1)
	}
}

func report(log *zap.Logger, res *scenario.Result) {
	st := res.System.Stats()
	log.Info("run complete",
		zap.Int("cycles", res.Cycles),
		zap.Uint64("ticks", res.Board.Time()),
		zap.Uint32("sleeps", st.Sleeps),
		zap.Uint32("spurious_wakes", st.SpuriousWakes),
		zap.Uint32("forced_expiries", st.ForcedExpiries),
		zap.Uint32("violations", st.Violations))
	log.Info("radio",
		zap.Int("arrived", res.Board.Radio.Received),
		zap.Int("received", res.Received),
		zap.Int("missed", res.Missed),
		zap.Int("fetched", res.Fetched))
	log.Info("sleep overshoot (ticks)",
		zap.Int64("p50", res.Overshoot.ValueAtQuantile(50)),
		zap.Int64("p99", res.Overshoot.ValueAtQuantile(99)),
		zap.Int64("max", res.Overshoot.Max()))
	for r := power.BelowUltraLow; r <= power.NearExcess; r++ {
		if n := res.Ranges[r]; n > 0 {
			log.Info("voltage range", zap.Stringer("range", r), zap.Int("cycles", n))
		}
	}
	if w := res.Monitor.Warnings(); w > 0 {
		log.Warn("brownouts", zap.Int("warnings", w))
	}
	if v := res.System.LastViolation(); v != nil {
		log.Warn("last contract violation", zap.Error(v))
	}
}
