// Package protocol frames timing-ring events for transport off the node.
//
// A frame is
//
//	len | seq | type | index | clock | value1 | value2 | crc16 | sync
//
// where len counts the whole frame, seq is 0x10 | (n & 0x0F), clock and the
// values are VLQ encoded, and the CRC covers everything before it.
package protocol

// Version of the trace frame format.
const Version = "1"

const (
	MessageMax     = 64   // longest frame
	MessageMin     = 5    // header plus trailer
	MessageHeader  = 2    // len, seq
	MessageTrailer = 3    // crc16, sync
	MessageSync    = 0x7E // frame terminator
	MessageDest    = 0x10 // high nibble of the seq byte

	MessageSeqMask = 0x0F

	// TraceLinePrefix starts a log line carrying one hex encoded frame.
	TraceLinePrefix = "TRACE "
)
