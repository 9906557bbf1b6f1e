package power

import (
	"errors"

	"radiosoc/protocol"
)

var (
	ErrFlashRange = errors.New("flash index out of range")
	ErrNoTrace    = errors.New("no brownout trace recorded")
	ErrTraceCRC   = errors.New("brownout trace CRC mismatch")
)

// Flash is word-addressed storage that survives reset. Erased words read
// 0xFFFFFFFF.
type Flash interface {
	ReadWords(index int, words []uint32) error
	WriteWords(index int, words []uint32) error
}

const (
	// TraceWords is the size of one record: three values and a CRC.
	TraceWords = 4

	BrownoutTrace1Index = 0
	BrownoutTrace2Index = BrownoutTrace1Index + TraceWords

	erased = 0xFFFFFFFF
)

// TraceFunc returns one word of application state, e.g. the algorithm
// phase or the time since the last sleep. It runs in interrupt context.
type TraceFunc func() uint32

// Trace is one decoded brownout record.
type Trace [3]uint32

// BrownoutRecorder writes application state to flash when power fails. A
// node that browns out repeatedly keeps the first two records; flash is
// written once per erase.
type BrownoutRecorder struct {
	flash Flash
	cb    [3]TraceFunc
}

func NewBrownoutRecorder(flash Flash) *BrownoutRecorder {
	return &BrownoutRecorder{flash: flash}
}

// RegisterCallbacks sets the functions sampled at brownout.
func (r *BrownoutRecorder) RegisterCallbacks(a, b, c TraceFunc) {
	r.cb = [3]TraceFunc{a, b, c}
}

// RecordToFlash writes a record into the first free slot, or does nothing
// when both are used or no callbacks are registered.
func (r *BrownoutRecorder) RecordToFlash() error {
	if r.cb[0] == nil || r.cb[1] == nil || r.cb[2] == nil {
		return nil
	}
	for _, index := range []int{BrownoutTrace1Index, BrownoutTrace2Index} {
		written, err := r.isWritten(index)
		if err != nil {
			return err
		}
		if written {
			continue
		}
		var words [TraceWords]uint32
		for i, cb := range r.cb {
			words[i] = cb()
		}
		words[3] = uint32(protocol.CRC16Words(words[:3]))
		return r.flash.WriteWords(index, words[:])
	}
	return nil
}

func (r *BrownoutRecorder) isWritten(index int) (bool, error) {
	// The CRC word is below 0x10000 once written.
	var w [1]uint32
	if err := r.flash.ReadWords(index+TraceWords-1, w[:]); err != nil {
		return false, err
	}
	return w[0] != erased, nil
}

// ReadTrace decodes the record at index, BrownoutTrace1Index or
// BrownoutTrace2Index.
func ReadTrace(flash Flash, index int) (Trace, error) {
	var words [TraceWords]uint32
	if err := flash.ReadWords(index, words[:]); err != nil {
		return Trace{}, err
	}
	if words == [TraceWords]uint32{erased, erased, erased, erased} {
		return Trace{}, ErrNoTrace
	}
	if uint32(protocol.CRC16Words(words[:3])) != words[3] {
		return Trace{}, ErrTraceCRC
	}
	return Trace{words[0], words[1], words[2]}, nil
}
