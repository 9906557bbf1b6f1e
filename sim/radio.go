package sim

// Radio models only the end-of-packet event.
type Radio struct {
	b        *Board
	endEvent bool
	Received int
}

// ScheduleMessage makes a packet arrive at tick at.
func (r *Radio) ScheduleMessage(at uint64) {
	r.b.At(at, func() {
		r.Received++
		r.endEvent = true
	})
}

// IsEndEvent reports whether a packet is waiting.
func (r *Radio) IsEndEvent() bool {
	return r.endEvent
}

// ClearEndEvent acknowledges the packet.
func (r *Radio) ClearEndEvent() {
	r.endEvent = false
}

func (r *Radio) interruptLine() bool {
	return r.endEvent
}
