// Package scenario runs a node's duty cycle on the simulator: measure the
// supply, listen for a radio slot when there is charge, flash the LED and
// sleep. Scenarios are TOML files.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/pelletier/go-toml/v2"

	"radiosoc/core"
	"radiosoc/power"
	"radiosoc/services"
	"radiosoc/sim"
)

type NodeConfig struct {
	Policy         string `toml:"policy"`
	MinTimeout     uint32 `toml:"min_timeout"`
	SaneTimeout    uint32 `toml:"sane_timeout"`
	LFStartupTicks uint64 `toml:"lf_startup_ticks"`
	HFStartupTicks uint64 `toml:"hf_startup_ticks"`
	ReadCost       uint64 `toml:"read_cost"`
	InitialCounter uint32 `toml:"initial_counter"`
}

type RunConfig struct {
	Cycles   int    `toml:"cycles"`
	SleepMs  uint32 `toml:"sleep_ms"`
	ListenMs uint32 `toml:"listen_ms"`
}

type RadioConfig struct {
	// MessageEveryTicks spaces packets on air; zero means none.
	MessageEveryTicks uint64 `toml:"message_every_ticks"`
}

type PowerConfig struct {
	VddMillivolts      uint32 `toml:"vdd_mv"`
	BrownoutMillivolts uint32 `toml:"brownout_mv"`

	// Brownout and recovery happen at the start of these cycles; zero
	// disables.
	BrownoutAtCycle int `toml:"brownout_at_cycle"`
	RecoverAtCycle  int `toml:"recover_at_cycle"`
}

// Scenario is one simulated run.
type Scenario struct {
	Node  NodeConfig  `toml:"node"`
	Run   RunConfig   `toml:"run"`
	Radio RadioConfig `toml:"radio"`
	Power PowerConfig `toml:"power"`
}

// Default returns a ten cycle run of a healthy node with no traffic.
func Default() Scenario {
	return Scenario{
		Node: NodeConfig{Policy: "report"},
		Run:  RunConfig{Cycles: 10, SleepMs: 1000, ListenMs: 5},
		Power: PowerConfig{
			VddMillivolts:      3000,
			BrownoutMillivolts: 2000,
		},
	}
}

// Parse decodes a TOML scenario over the defaults. Unknown keys are an
// error.
func Parse(raw []byte) (Scenario, error) {
	s := Default()
	err := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&s)
	if err != nil {
		return s, err
	}
	return s, s.validate()
}

// Load reads and parses a scenario file.
func Load(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	return Parse(raw)
}

func (s Scenario) validate() error {
	if s.Run.Cycles <= 0 {
		return fmt.Errorf("run.cycles must be positive, got %d", s.Run.Cycles)
	}
	if s.Run.SleepMs == 0 {
		return fmt.Errorf("run.sleep_ms must be positive")
	}
	for name, ms := range map[string]uint32{"run.sleep_ms": s.Run.SleepMs, "run.listen_ms": s.Run.ListenMs} {
		if uint64(ms)*core.TicksPerSecond/1000 > uint64(core.MaxTimeout) {
			return fmt.Errorf("%s too long: %d", name, ms)
		}
	}
	if _, err := core.ParsePolicy(s.Node.Policy); err != nil {
		return fmt.Errorf("node.policy: %w", err)
	}
	if s.Node.SaneTimeout > uint32(core.MaxTimeout) {
		return fmt.Errorf("node.sane_timeout above %d", core.MaxTimeout)
	}
	return nil
}

// Result is what a run observed.
type Result struct {
	System   *core.System
	Board    *sim.Board
	Monitor  *power.Monitor
	Cycles   int
	Received int // packets that arrived while listening
	Missed   int // packets that arrived outside a listen window
	Fetched  int // packets the main loop took from the mailbox

	Ranges map[power.VoltageRange]int

	// Overshoot is how many ticks each SleepDuration overran its request.
	Overshoot *hdrhistogram.Histogram
}

// Run simulates s. led may be nil.
func Run(s Scenario, log core.Logger, led services.LED) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	policy, _ := core.ParsePolicy(s.Node.Policy)
	b, sys := sim.NewSystem(sim.Options{
		LFStartupTicks: s.Node.LFStartupTicks,
		HFStartupTicks: s.Node.HFStartupTicks,
		ReadCost:       s.Node.ReadCost,
		InitialCounter: s.Node.InitialCounter,
		VddMillivolts:  s.Power.VddMillivolts,
	}, core.Config{
		Policy:      policy,
		MinTimeout:  core.OSTime(s.Node.MinTimeout),
		SaneTimeout: core.OSTime(s.Node.SaneTimeout),
		Logger:      log,
	})

	res := &Result{
		System:    sys,
		Board:     b,
		Ranges:    make(map[power.VoltageRange]int),
		Overshoot: hdrhistogram.New(1, int64(core.MaxTimeout), 3),
	}

	var phase uint32
	recorder := power.NewBrownoutRecorder(b.Flash)
	recorder.RegisterCallbacks(
		func() uint32 { return phase },
		func() uint32 { return uint32(sys.Clock.Now()) },
		func() uint32 { return sys.Stats().Sleeps },
	)
	res.Monitor = power.NewMonitor(b.POF, sys.Sleeper, recorder, sys.Logger())
	sys.AddPowerClockHook(res.Monitor.ISR)
	manager := power.NewManager(res.Monitor, b.POF)

	if err := sys.Clocks.StartLongClockWithSleepUntilRunning(); err != nil {
		return res, fmt.Errorf("clock start: %w", err)
	}
	manager.EnterBrownoutDetectMode()

	var mailbox services.Mailbox
	listening := false
	b.NVIC.SetHandler(core.IRQRadio, func() {
		b.Radio.ClearEndEvent()
		if !listening {
			res.Missed++
			return
		}
		res.Received++
		mailbox.TryPut(services.MailContents(b.Radio.Received))
		sys.Sleeper.MsgReceivedCallback()
	})
	b.NVIC.Enable(core.IRQRadio)
	if every := s.Radio.MessageEveryTicks; every > 0 {
		var next func()
		next = func() {
			b.Radio.ScheduleMessage(b.Time() + every)
			b.After(every, next)
		}
		next()
	}

	if led == nil {
		led = nopLED{}
	}
	flasher := services.NewLEDFlasherTask(led, sys.Tasks)
	sleepTicks := core.TicksForMilliseconds(s.Run.SleepMs)
	listenTicks := core.TicksForMilliseconds(s.Run.ListenMs)

	for cycle := 0; cycle < s.Run.Cycles; cycle++ {
		if s.Power.BrownoutAtCycle > 0 && cycle == s.Power.BrownoutAtCycle {
			b.POF.SetVdd(s.Power.BrownoutMillivolts)
		}
		if s.Power.RecoverAtCycle > 0 && cycle == s.Power.RecoverAtCycle {
			b.POF.SetVdd(s.Power.VddMillivolts)
		}

		phase = 1
		level := manager.VoltageRange()
		res.Ranges[level]++

		if level >= power.MediumToHigh && listenTicks > 0 {
			phase = 2
			if err := sys.Clocks.StartHFXOAndSleepUntilRunning(); err != nil {
				sys.Logger().Warn("HF start: " + err.Error())
			}
			listening = true
			err := sys.Sleeper.SleepUntilEventWithTimeout(listenTicks)
			listening = false
			if err != nil {
				sys.Logger().Warn("listen: " + err.Error())
			}
			if _, ok := mailbox.Fetch(); ok {
				res.Fetched++
			}
			b.HF.Stop()
		}

		phase = 3
		if err := flasher.FlashByAmount(uint32(level) + 1); err != nil {
			sys.Logger().Warn("flash: " + err.Error())
		}

		phase = 4
		start := sys.Clock.Now()
		if err := sys.Sleeper.SleepDuration(sleepTicks); err != nil {
			sys.Logger().Error("sleep: " + err.Error())
		}
		slept := core.ClampedTimeDifference(sys.Clock.Now(), start)
		over := int64(slept) - int64(sleepTicks)
		if over < 0 {
			return res, fmt.Errorf("cycle %d: slept %d ticks, asked for %d", cycle, slept, sleepTicks)
		}
		res.Overshoot.RecordValue(over)
		res.Cycles++
	}
	return res, nil
}

type nopLED struct{}

func (nopLED) Set(bool) {}
