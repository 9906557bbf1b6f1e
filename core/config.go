package core

// Config tunes a System. The zero value is usable; unset fields take the
// defaults from DefaultConfig.
type Config struct {
	// Policy decides whether contract violations trap or are reported.
	Policy Policy

	// MinTimeout is the smallest timeout the counter is trusted to turn
	// into a compare event. Starting a timer closer than this forces
	// expiry in software.
	MinTimeout OSTime

	// SaneTimeout caps SleepUntilEventWithTimeout. Zero means MaxTimeout.
	SaneTimeout OSTime

	// Logger receives diagnostics. Nil selects the platform default.
	Logger Logger

	// Fault is called for trapped violations. Nil selects PanicFault.
	Fault FaultHandler

	// DisableTrace stops recording into the timing ring.
	DisableTrace bool
}

// DefaultConfig returns the development configuration.
func DefaultConfig() Config {
	return Config{
		Policy:      PolicyTrap,
		MinTimeout:  DefaultMinTimeout,
		SaneTimeout: MaxTimeout,
		Logger:      defaultLogger(),
		Fault:       PanicFault,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.MinTimeout == 0 {
		c.MinTimeout = d.MinTimeout
	}
	if c.SaneTimeout == 0 {
		c.SaneTimeout = d.SaneTimeout
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.Fault == nil {
		c.Fault = d.Fault
	}
}
