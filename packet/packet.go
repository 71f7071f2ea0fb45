// Package packet defines the payload and routing/trace metadata that
// flows through links and routers.
package packet

import (
	"github.com/google/uuid"

	"github.com/sarchlab/hextorus/topology"
)

// Handle is a stable index into a System's packet registry (see
// netclock.System). Packets are never removed from the registry — a
// Handle remains valid for the whole run, which is what lets the registry
// double as the post-run trace.
type Handle int

// EmergencyHop records one emergency-routing detour: the scheduler clock
// at which it happened and the router position that performed it.
type EmergencyHop struct {
	Time     uint64
	Location topology.Position
}

// Packet is the unit of payload moving through the network, together with
// the routing metadata the router mutates in place and the trace fields
// the network populates for post-run analysis.
type Packet struct {
	// ID is a globally unique identifier, stable for the packet's entire
	// lifetime, independent of its registry Handle.
	ID string

	// Handle is this packet's index into the System's packet registry.
	Handle Handle

	// Payload is opaque to the network; traffic generators set it to a
	// self-reference so a draining generator can recognize its own
	// packets.
	Payload any

	Destination topology.Position
	Length      int // bits

	// BirthPhase is the system time-phase at injection, used for expiry.
	BirthPhase uint8

	Emergency bool
	Wait      int // router dwell cycles since last forwarded
	Distance  int // hops traveled

	// Trace fields, populated by the network and never cleared.
	Source    topology.Position
	SendTime  uint64
	Received  bool
	ReceiveTime uint64

	Dropped      bool
	DropTime     uint64
	DropLocation topology.Position

	EmergencyTrace []EmergencyHop
}

// New constructs a packet with the given payload, destination and length
// in bits. length must be at least 1 bit: the asynchronous handshake
// link's timing formula is undefined for zero-length packets, so a
// shorter length is a precondition violation.
func New(payload any, destination topology.Position, length int) *Packet {
	if length < 1 {
		panic("packet: length must be at least 1 bit")
	}
	return &Packet{
		ID:          uuid.NewString(),
		Payload:     payload,
		Destination: destination,
		Length:      length,
	}
}

// Expired reports whether the packet has expired given the current
// 2-bit system time-phase: two phase advances have elapsed since birth
// exactly when phase XOR birth == 0b11.
func (p *Packet) Expired(currentPhase uint8) bool {
	return (p.BirthPhase^currentPhase)&0b11 == 0b11
}

// RecordDrop stamps the packet's drop trace fields. It does not mutate
// Wait/Distance/Emergency — the router has already inspected those before
// deciding to drop.
func (p *Packet) RecordDrop(now uint64, location topology.Position) {
	p.Dropped = true
	p.DropTime = now
	p.DropLocation = location
}

// RecordEmergencyHop appends an emergency-routing detour to the packet's
// trace.
func (p *Packet) RecordEmergencyHop(now uint64, location topology.Position) {
	p.EmergencyTrace = append(p.EmergencyTrace, EmergencyHop{Time: now, Location: location})
}
