package link

import (
	"fmt"

	"github.com/sarchlab/hextorus/packet"
	"github.com/sarchlab/hextorus/scheduler"
)

type handshakeState int

const (
	handshakeReady handshakeState = iota
	handshakeSending
	handshakeStable
	handshakeAcking
)

// Handshake models an asynchronous chip-to-chip link using a per-packet
// request/ack protocol (the source's "Silistix" link): READY -> SENDING
// -> STABLE -> ACKING -> READY. Larger packets take proportionally
// longer to settle.
type Handshake struct {
	sched      *scheduler.Scheduler
	sendCycles int64
	ackCycles  int64

	state     handshakeState
	curPacket *packet.Packet
}

// NewHandshake creates an asynchronous handshake link driven by sched.
func NewHandshake(sched *scheduler.Scheduler, sendCycles, ackCycles int64) *Handshake {
	return &Handshake{sched: sched, sendCycles: sendCycles, ackCycles: ackCycles}
}

func (h *Handshake) CanSend() bool {
	return h.state == handshakeReady
}

func (h *Handshake) Send(p *packet.Packet) {
	if !h.CanSend() {
		panic("link: send on a handshake link that is not READY")
	}
	h.curPacket = p
	h.state = handshakeSending
	delay := h.sendCycles*int64(p.Length) + h.ackCycles*int64(p.Length-1)
	h.sched.ScheduleLater(h.toStable, delay)
}

func (h *Handshake) toStable() {
	h.state = handshakeStable
}

func (h *Handshake) CanReceive() bool {
	return h.state == handshakeStable
}

func (h *Handshake) Peek() *packet.Packet {
	if !h.CanReceive() {
		panic("link: peek on a handshake link that is not STABLE")
	}
	return h.curPacket
}

func (h *Handshake) Receive() *packet.Packet {
	if !h.CanReceive() {
		panic("link: receive on a handshake link that is not STABLE")
	}
	p := h.curPacket
	h.state = handshakeAcking
	h.sched.ScheduleLater(h.toReady, h.ackCycles)
	return p
}

func (h *Handshake) toReady() {
	h.curPacket = nil
	h.state = handshakeReady
}

func (h *Handshake) String() string {
	names := [...]string{"READY", "SENDING", "STABLE", "ACKING"}
	return fmt.Sprintf("Handshake(%s)", names[h.state])
}
