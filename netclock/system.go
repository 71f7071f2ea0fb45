// Package netclock owns the simulation-wide time-phase clock and the
// append-only packet registry used for post-run tracing.
package netclock

import (
	"github.com/sarchlab/hextorus/packet"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

// Gray-coded 2-bit time-phase sequence: 00 -> 01 -> 11 -> 10 -> 00.
var phaseSequence = [4]uint8{0b00, 0b01, 0b11, 0b10}

// System owns the global 2-bit time-phase and the registry of every
// packet ever created, for post-run analysis. It is the one component
// spec.md describes as a cross-cutting collaborator: routers consult its
// CurrentPhase, generators create packets through it.
type System struct {
	sched           *scheduler.Scheduler
	timePhasePeriod int64
	phaseIndex      int
	registry        []*packet.Packet
}

// NewSystem creates a System driven by sched, advancing its time-phase
// every timePhasePeriod scheduler cycles once Start is called.
// timePhasePeriod must be positive.
func NewSystem(sched *scheduler.Scheduler, timePhasePeriod int64) *System {
	if timePhasePeriod <= 0 {
		panic("netclock: time phase period must be positive")
	}
	return &System{sched: sched, timePhasePeriod: timePhasePeriod}
}

// Start arms the first phase-advance tick.
func (s *System) Start() {
	s.sched.ScheduleLater(s.tick, s.timePhasePeriod)
}

func (s *System) tick() {
	s.phaseIndex = (s.phaseIndex + 1) % len(phaseSequence)
	s.sched.ScheduleLater(s.tick, s.timePhasePeriod)
}

// CurrentPhase returns the current 2-bit time-phase value.
func (s *System) CurrentPhase() uint8 {
	return phaseSequence[s.phaseIndex]
}

// NewPacket creates a packet stamped with the current time-phase and
// birth metadata, appends it to the global registry, and returns it. The
// packet's Handle is its index in the registry, valid for the life of the
// run.
func (s *System) NewPacket(payload any, destination topology.Position, length int, source topology.Position, now uint64) *packet.Packet {
	p := packet.New(payload, destination, length)
	p.BirthPhase = s.CurrentPhase()
	p.Source = source
	p.SendTime = now
	p.Handle = packet.Handle(len(s.registry))
	s.registry = append(s.registry, p)
	return p
}

// Packets returns the full, append-only packet registry — every packet
// created during the run, whether delivered, dropped, or still in
// flight.
func (s *System) Packets() []*packet.Packet {
	return s.registry
}
