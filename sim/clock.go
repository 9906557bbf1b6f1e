package sim

// LFClock is the 32kHz oscillator. The RTC counts from the moment it is
// started, on the RC oscillator until the crystal is stable.
type LFClock struct {
	b            *Board
	xtal         bool
	started      bool
	starting     bool
	running      bool
	readyAt      uint64
	startedEvent bool
	enabled      bool
}

func (c *LFClock) ConfigureXtalSource() {
	c.xtal = true
}

func (c *LFClock) Start() {
	if c.started {
		return
	}
	c.started = true
	c.starting = true
	c.readyAt = c.b.now + c.b.opts.LFStartupTicks
}

func (c *LFClock) IsStarted() bool {
	return c.started
}

func (c *LFClock) IsRunning() bool {
	return c.running
}

func (c *LFClock) IsStartedEvent() bool {
	return c.startedEvent
}

func (c *LFClock) EnableInterruptOnStarted() {
	c.enabled = true
	c.b.dispatch()
}

func (c *LFClock) DisableInterruptOnStarted() {
	c.enabled = false
}

func (c *LFClock) IsInterruptEnabledOnStarted() bool {
	return c.enabled
}

// IsXtal reports whether the crystal source was selected.
func (c *LFClock) IsXtal() bool {
	return c.xtal
}

func (c *LFClock) tick() {
	if c.starting && c.b.now >= c.readyAt {
		c.starting = false
		c.running = true
		c.startedEvent = true
	}
}

func (c *LFClock) interruptLine() bool {
	return c.startedEvent && c.enabled
}

// HFClock is the 64MHz crystal oscillator.
type HFClock struct {
	b            *Board
	starting     bool
	running      bool
	readyAt      uint64
	startedEvent bool
	enabled      bool
	Starts       int
}

func (c *HFClock) Start() {
	if c.starting || c.running {
		return
	}
	c.Starts++
	c.starting = true
	c.readyAt = c.b.now + c.b.opts.HFStartupTicks
}

func (c *HFClock) IsRunning() bool {
	return c.running
}

func (c *HFClock) IsStartedEvent() bool {
	return c.startedEvent
}

func (c *HFClock) ClearStartedEvent() {
	c.startedEvent = false
}

func (c *HFClock) EnableInterruptOnRunning() {
	c.enabled = true
	c.b.dispatch()
}

func (c *HFClock) DisableInterruptOnRunning() {
	c.enabled = false
}

func (c *HFClock) IsInterruptEnabledForRunning() bool {
	return c.enabled
}

// Stop turns the crystal off, as the radio driver does between packets.
func (c *HFClock) Stop() {
	c.starting = false
	c.running = false
}

func (c *HFClock) tick() {
	if c.starting && c.b.now >= c.readyAt {
		c.starting = false
		c.running = true
		c.startedEvent = true
	}
}

func (c *HFClock) interruptLine() bool {
	return c.startedEvent && c.enabled
}
