// Package node reads the log a radiosoc node writes to its UART: level
// prefixed text lines and hex encoded timing-ring frames.
package node

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"radiosoc/core"
	"radiosoc/host/serial"
	"radiosoc/protocol"
)

// Level prefixes written by core.SerialLogger.
var levels = []struct {
	prefix string
	level  string
}{
	{"[DEBUG] ", "DEBUG"},
	{"[INFO]  ", "INFO"},
	{"[WARN]  ", "WARN"},
	{"[ERROR] ", "ERROR"},
}

// Line is one line of node output.
type Line struct {
	Level string // DEBUG, INFO, WARN, ERROR, or empty for unprefixed output
	Text  string

	// Trace is set when the line carried a timing-ring frame.
	Trace *protocol.TraceEvent
	Seq   uint8

	// Err is set when the line looked like a frame but did not decode.
	Err error
}

// ParseLine classifies one line, without its line ending.
func ParseLine(s string) Line {
	var line Line
	line.Text = s
	for _, l := range levels {
		if rest, ok := strings.CutPrefix(s, l.prefix); ok {
			line.Level = l.level
			line.Text = rest
			break
		}
	}

	payload, ok := strings.CutPrefix(line.Text, protocol.TraceLinePrefix)
	if !ok {
		return line
	}
	frame, err := hex.DecodeString(payload)
	if err != nil {
		line.Err = fmt.Errorf("trace line: %w", err)
		return line
	}
	seq, evt, err := protocol.DecodeTraceFrame(frame)
	if err != nil {
		line.Err = err
		return line
	}
	line.Trace = &evt
	line.Seq = seq
	return line
}

// FormatTrace renders an event the way TimingRing.Dump does.
func FormatTrace(evt protocol.TraceEvent) string {
	return fmt.Sprintf("%s idx=%d clock=%d v1=%d v2=%d",
		core.EventName(evt.Type), evt.Index, evt.Clock, evt.Value1, evt.Value2)
}

// Node represents a connection to a node's log output
type Node struct {
	port    io.ReadCloser
	scanner *bufio.Scanner

	// Frame sequence tracking; each dump restarts at zero.
	nextSeq int
	dropped int

	connected bool
}

// NewNode creates a new Node (not yet connected)
func NewNode() *Node {
	return &Node{nextSeq: -1}
}

// Connect opens the node's serial port with the default settings
func (n *Node) Connect(device string) error {
	return n.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the node's serial port with a custom config
func (n *Node) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	// Drop the partial line in the UART buffer.
	if err := port.Discard(); err != nil {
		port.Close()
		return fmt.Errorf("failed to discard buffered input: %w", err)
	}
	n.Attach(port)
	return nil
}

// Attach reads from r instead of a serial port.
func (n *Node) Attach(r io.ReadCloser) {
	n.port = r
	n.scanner = bufio.NewScanner(r)
	n.connected = true
}

// Next returns the next line. It returns io.EOF once the port is closed.
func (n *Node) Next() (Line, error) {
	if !n.connected {
		return Line{}, errors.New("not connected to node")
	}
	if !n.scanner.Scan() {
		if err := n.scanner.Err(); err != nil {
			return Line{}, err
		}
		return Line{}, io.EOF
	}
	line := ParseLine(strings.TrimRight(n.scanner.Text(), "\r"))
	if line.Trace != nil {
		n.track(line.Seq)
	}
	return line, nil
}

func (n *Node) track(seq uint8) {
	if seq != 0 && n.nextSeq >= 0 && int(seq) != n.nextSeq {
		n.dropped += (int(seq) - n.nextSeq) & int(protocol.MessageSeqMask)
	}
	n.nextSeq = (int(seq) + 1) & int(protocol.MessageSeqMask)
}

// Dropped returns how many trace frames were lost, judged by gaps in the
// sequence numbers.
func (n *Node) Dropped() int {
	return n.dropped
}

// Close closes the connection to the node
func (n *Node) Close() error {
	n.connected = false
	if n.port != nil {
		return n.port.Close()
	}
	return nil
}

// IsConnected returns whether the node is connected
func (n *Node) IsConnected() bool {
	return n.connected
}
