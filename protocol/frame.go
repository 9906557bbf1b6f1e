package protocol

import "errors"

var (
	ErrShortFrame = errors.New("trace frame too short")
	ErrFrameLen   = errors.New("trace frame length mismatch")
	ErrFrameSync  = errors.New("trace frame missing sync byte")
	ErrFrameCRC   = errors.New("trace frame CRC mismatch")
)

// TraceEvent is one timing-ring entry.
type TraceEvent struct {
	Type   uint8
	Index  uint8
	Clock  uint32 // counter value when recorded
	Value1 uint32
	Value2 uint32
}

// EncodeTraceFrame appends one framed event to output.
func EncodeTraceFrame(output OutputBuffer, seq uint8, evt TraceEvent) {
	start := output.CurPosition()
	output.Output([]byte{0, MessageDest | (seq & MessageSeqMask), evt.Type, evt.Index})
	EncodeVLQUint(output, evt.Clock)
	EncodeVLQUint(output, evt.Value1)
	EncodeVLQUint(output, evt.Value2)

	length := output.CurPosition() - start + MessageTrailer
	output.Update(start, byte(length))
	crc := CRC16(output.DataSince(start))
	output.Output([]byte{byte(crc >> 8), byte(crc), MessageSync})
}

// DecodeTraceFrame checks and decodes one frame.
func DecodeTraceFrame(frame []byte) (seq uint8, evt TraceEvent, err error) {
	if len(frame) < MessageMin+2 {
		return 0, evt, ErrShortFrame
	}
	if int(frame[0]) != len(frame) {
		return 0, evt, ErrFrameLen
	}
	if frame[len(frame)-1] != MessageSync {
		return 0, evt, ErrFrameSync
	}
	body := frame[:len(frame)-MessageTrailer]
	want := uint16(frame[len(frame)-3])<<8 | uint16(frame[len(frame)-2])
	if CRC16(body) != want {
		return 0, evt, ErrFrameCRC
	}

	seq = body[1] & MessageSeqMask
	evt.Type = body[2]
	evt.Index = body[3]
	data := body[4:]
	if evt.Clock, err = DecodeVLQUint(&data); err != nil {
		return 0, evt, err
	}
	if evt.Value1, err = DecodeVLQUint(&data); err != nil {
		return 0, evt, err
	}
	if evt.Value2, err = DecodeVLQUint(&data); err != nil {
		return 0, evt, err
	}
	if len(data) != 0 {
		return 0, evt, ErrFrameLen
	}
	return seq, evt, nil
}
