//go:build nrf52 || nrf52833 || nrf52840

// Firmware for an nRF52 sensor node that lives off a solar-charged
// capacitor: it sleeps on the RTC, wakes once a second, listens for a
// radio slot when the supply allows it and flashes its LED by charge level.
package main

import (
	"device/nrf"
	"machine"
	"strconv"

	"radiosoc/core"
	"radiosoc/power"
	"radiosoc/services"
)

const (
	cycleMillis      = 1000
	listenMillis     = 5
	hfStartupDelay   = 12 // datasheet bound for the 32MHz crystal, in ticks
	traceDumpCycles  = 16
	phaseSleeping    = 1
	phaseListening   = 2
	phaseMeasuring   = 3
	phaseHFStarting  = 4
	phaseFlashingLED = 5
)

var phase uint32

func main() {
	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	cfg := core.DefaultConfig()
	cfg.Policy = core.PolicyReport
	sys := core.NewSystem(core.Platform{
		Counter: newRTCCounter(),
		NVIC:    nvic{},
		MCU:     nvic{},
		LFClock: lfClock{},
		HFClock: hfClock{},
	}, cfg)
	log := sys.Logger()
	installVectors(sys)

	flash := nvmcFlash{}
	reportBrownouts(flash, log)
	recorder := power.NewBrownoutRecorder(flash)
	recorder.RegisterCallbacks(
		func() uint32 { return phase },
		func() uint32 { return uint32(sys.Clock.Now()) },
		func() uint32 { return sys.Stats().Sleeps },
	)
	monitor := power.NewMonitor(&pofComparator{}, sys.Sleeper, recorder, log)
	sys.AddPowerClockHook(monitor.ISR)
	manager := power.NewManager(monitor, vddReader{})

	sys.EnableTimerInterrupt()
	if err := sys.Clocks.StartLongClockWithSleepUntilRunning(); err != nil {
		log.Error("clock start: " + err.Error())
	}
	manager.EnterBrownoutDetectMode()

	nrf.RADIO.INTENSET.Set(nrf.RADIO_INTENSET_END)
	if err := sys.Clocks.StartHFClockWithSleepConstantExpectedDelay(hfStartupDelay); err != nil {
		log.Warn("HF start: " + err.Error())
	}
	stopHF()

	flasher := services.NewLEDFlasherTask(machine.LED, sys.Tasks)
	log.Info("radiosoc node up")

	for cycle := uint32(1); ; cycle++ {
		phase = phaseMeasuring
		level := manager.VoltageRange()

		if level >= power.MediumToHigh {
			phase = phaseHFStarting
			if err := sys.Clocks.StartHFXOAndSleepUntilRunning(); err != nil {
				log.Warn("HF start: " + err.Error())
			}
			phase = phaseListening
			listen(sys, log)
			stopHF()
		}

		phase = phaseFlashingLED
		if err := flasher.FlashByAmount(uint32(level) + 1); err != nil {
			log.Warn("flash: " + err.Error())
		}

		phase = phaseSleeping
		if err := sys.Sleeper.SleepDuration(core.TicksForMilliseconds(cycleMillis)); err != nil {
			log.Error("sleep: " + err.Error())
		}

		if cycle%traceDumpCycles == 0 {
			logStats(sys, level, log)
			sys.Trace.DumpFrames(log)
			sys.Trace.Clear()
		}
	}
}

// listen opens a receive window. Packet handling is out of scope; a
// received packet only ends the window early.
func listen(sys *core.System, log core.Logger) {
	nrf.RADIO.TASKS_RXEN.Set(1)
	nvic{}.Enable(core.IRQRadio)
	err := sys.Sleeper.SleepUntilEventWithTimeout(core.TicksForMilliseconds(listenMillis))
	nvic{}.Disable(core.IRQRadio)
	nrf.RADIO.TASKS_DISABLE.Set(1)
	if err != nil {
		log.Warn("listen: " + err.Error())
		return
	}

	if sys.Sleeper.ReasonForWake() == core.MsgReceived {
		log.Info("packet received")
	}
}

func stopHF() {
	nrf.CLOCK.TASKS_HFCLKSTOP.Set(1)
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
}

func logStats(sys *core.System, level power.VoltageRange, log core.Logger) {
	st := sys.Stats()
	log.Info("power " + level.String() +
		" sleeps=" + strconv.FormatUint(uint64(st.Sleeps), 10) +
		" spurious=" + strconv.FormatUint(uint64(st.SpuriousWakes), 10) +
		" forced=" + strconv.FormatUint(uint64(st.ForcedExpiries), 10) +
		" violations=" + strconv.FormatUint(uint64(st.Violations), 10))
}

// reportBrownouts logs the records left by earlier brownouts and frees the
// page for new ones.
func reportBrownouts(flash nvmcFlash, log core.Logger) {
	found := false
	for _, index := range []int{power.BrownoutTrace1Index, power.BrownoutTrace2Index} {
		trace, err := power.ReadTrace(flash, index)
		if err == power.ErrNoTrace {
			continue
		}
		found = true
		if err != nil {
			log.Warn("brownout trace: " + err.Error())
			continue
		}
		log.Warn("brownout in phase " + strconv.FormatUint(uint64(trace[0]), 10) +
			" at tick " + strconv.FormatUint(uint64(trace[1]), 10) +
			" after " + strconv.FormatUint(uint64(trace[2]), 10) + " sleeps")
	}
	if found {
		flash.Erase()
	}
}
