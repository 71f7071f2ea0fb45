// Package link implements the four link models that carry packets
// between generators, routers and boards, all behind the same
// CanSend/Send/CanReceive/Receive/Peek contract.
package link

import "github.com/sarchlab/hextorus/packet"

// Link is the uniform contract every link variant satisfies. Calling Send
// when CanSend is false, or Receive/Peek when CanReceive is false, is a
// precondition violation and panics — per spec.md, these are programmer
// errors, not recoverable conditions.
type Link interface {
	CanSend() bool
	Send(p *packet.Packet)
	CanReceive() bool
	// Peek returns the packet CanReceive reports is available, without
	// consuming it.
	Peek() *packet.Packet
	Receive() *packet.Packet
}

// Dead is the permanently-inert sentinel installed on every chip edge
// slot that hasn't been wired to a real link yet.
type Dead struct{}

// NewDead returns a Dead link.
func NewDead() *Dead { return &Dead{} }

func (*Dead) CanSend() bool           { return false }
func (*Dead) Send(*packet.Packet)     { panic("link: send on a dead link") }
func (*Dead) CanReceive() bool        { return false }
func (*Dead) Peek() *packet.Packet    { panic("link: peek on a dead link") }
func (*Dead) Receive() *packet.Packet { panic("link: receive on a dead link") }
