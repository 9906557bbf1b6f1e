package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"radiosoc/core"
	"radiosoc/host/metrics"
	"radiosoc/host/node"
	"radiosoc/host/serial"
	"radiosoc/host/zaplog"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate")
	verbose = flag.Bool("verbose", false, "Log every trace frame")
	listen  = flag.String("metrics", "", "Serve /metrics on this address, e.g. 127.0.0.1:8080")
)

func main() {
	flag.Parse()

	log, err := zaplog.New(*verbose)
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
	defer log.Sync()

	tm := metrics.NewTraceMetrics(prometheus.DefaultRegisterer)
	if *listen != "" {
		go runMonitor(log, *listen)
	}

	n := node.NewNode()
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	log.Info("connecting to node", zap.String("device", *device), zap.Int("baud", *baud))
	if err := n.ConnectWithConfig(cfg); err != nil {
		log.Fatal("failed to connect", zap.Error(err))
	}
	defer n.Close()

	if err := follow(log, n, tm); err != nil {
		log.Error("read failed", zap.Error(err))
		os.Exit(1)
	}
}

func runMonitor(log *zap.Logger, addr string) {
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(addr, nil)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

// follow logs node output until the port closes.
func follow(log *zap.Logger, n *node.Node, tm *metrics.TraceMetrics) error {
	for {
		line, err := n.Next()
		if errors.Is(err, io.EOF) {
			log.Info("node closed the connection", zap.Int("dropped_frames", n.Dropped()))
			return nil
		}
		if err != nil {
			return err
		}
		handle(log, line, tm)
		tm.DroppedFrames.Set(float64(n.Dropped()))
	}
}

func handle(log *zap.Logger, line node.Line, tm *metrics.TraceMetrics) {
	level := line.Level
	if level == "" {
		level = "NONE"
	}
	tm.Lines.WithLabelValues(level).Inc()

	switch {
	case line.Err != nil:
		tm.BadFrames.Inc()
		log.Warn("bad trace frame", zap.String("line", line.Text), zap.Error(line.Err))
	case line.Trace != nil:
		evt := line.Trace
		tm.Events.WithLabelValues(core.EventName(evt.Type)).Inc()
		if evt.Type == core.EvtViolation {
			log.Warn("node contract violation",
				zap.String("kind", core.Violation(evt.Index).String()),
				zap.Uint32("clock", evt.Clock))
			return
		}
		log.Debug(node.FormatTrace(*evt), zap.Uint8("seq", line.Seq))
	default:
		msg := fmt.Sprintf("node: %s", line.Text)
		switch line.Level {
		case "ERROR":
			log.Error(msg)
		case "WARN":
			log.Warn(msg)
		case "DEBUG":
			log.Debug(msg)
		default:
			log.Info(msg)
		}
	}
}
