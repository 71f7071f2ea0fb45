// Package board assembles a radius-4 hexagonal tile of 48 chips, wired
// internally with asynchronous handshake links, and exposes its boundary
// chips for inter-board linking.
package board

import (
	"math/rand"

	"github.com/sarchlab/hextorus/chip"
	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

// Radius is the hexagon radius the spec's board uses, yielding the
// 3*Radius*Radius = 48 chips per board.
const Radius = 4

// internalDirections are the three directions swept when wiring a board's
// internal mesh: each covers one of the three axes, and each axis's
// opposite direction is wired as the matching return link for the same
// neighbor pair, so every internal edge is visited exactly once.
var internalDirections = [3]topology.Direction{topology.E, topology.NE, topology.N}

// Board is a fixed arrangement of chips at the positions of a radius-4
// hexagon, keyed by local hexagon coordinate. SetMeshPosition and its
// left/right/top/bottom variants place the board's chips at absolute
// mesh positions within a larger torus.
type Board struct {
	radius int
	chips  map[topology.Position]*chip.Chip
}

// Builder constructs a Board, mirroring the chip/router/generator fluent
// With*-then-Build convention.
type Builder struct {
	sched               *scheduler.Scheduler
	system              *netclock.System
	rng                 *rand.Rand
	routerPeriod        int64
	generatorPeriod     int64
	waitBeforeEmergency int
	waitBeforeDrop      int
	packetProb          float64
	distStd             *float64
	handshakeSendCycles int64
	handshakeAckCycles  int64
	injectionBufferLen  int
	radius              int
}

// NewBuilder creates a Board builder at the spec's default radius and a
// conservative internal handshake timing.
func NewBuilder() Builder {
	return Builder{
		radius:              Radius,
		routerPeriod:        1,
		generatorPeriod:     1,
		handshakeSendCycles: 1,
		handshakeAckCycles:  1,
		injectionBufferLen:  4,
	}
}

func (b Builder) WithScheduler(sched *scheduler.Scheduler) Builder {
	b.sched = sched
	return b
}

func (b Builder) WithSystem(system *netclock.System) Builder {
	b.system = system
	return b
}

func (b Builder) WithRand(rng *rand.Rand) Builder {
	b.rng = rng
	return b
}

func (b Builder) WithRouterPeriod(period int64) Builder {
	b.routerPeriod = period
	return b
}

func (b Builder) WithGeneratorPeriod(period int64) Builder {
	b.generatorPeriod = period
	return b
}

func (b Builder) WithWaitBeforeEmergency(cycles int) Builder {
	b.waitBeforeEmergency = cycles
	return b
}

func (b Builder) WithWaitBeforeDrop(cycles int) Builder {
	b.waitBeforeDrop = cycles
	return b
}

func (b Builder) WithPacketProb(prob float64) Builder {
	b.packetProb = prob
	return b
}

func (b Builder) WithDistanceStd(std float64) Builder {
	b.distStd = &std
	return b
}

func (b Builder) WithHandshakeTiming(sendCycles, ackCycles int64) Builder {
	b.handshakeSendCycles = sendCycles
	b.handshakeAckCycles = ackCycles
	return b
}

// WithInjectionBufferLength sets injection_buffer_length for every chip on
// the board; the exit link back to each chip's generator is always
// unbounded.
func (b Builder) WithInjectionBufferLength(length int) Builder {
	b.injectionBufferLen = length
	return b
}

// Build creates the board's 48 chips and wires their internal mesh with
// asynchronous handshake links. It is not started, and chips have no
// absolute mesh position until SetMeshPosition (or its left/right/top/
// bottom variants) is called.
func (b Builder) Build() *Board {
	if b.sched == nil || b.system == nil {
		panic("board: requires a scheduler and system")
	}

	board := &Board{
		radius: b.radius,
		chips:  make(map[topology.Position]*chip.Chip),
	}

	for _, p := range topology.Hexagon(b.radius) {
		cb := chip.NewBuilder().
			WithScheduler(b.sched).
			WithSystem(b.system).
			WithRouterPeriod(b.routerPeriod).
			WithGeneratorPeriod(b.generatorPeriod).
			WithWaitBeforeEmergency(b.waitBeforeEmergency).
			WithWaitBeforeDrop(b.waitBeforeDrop).
			WithPacketProb(b.packetProb).
			WithInjectionBufferLength(b.injectionBufferLen)
		if b.rng != nil {
			cb = cb.WithRand(b.rng)
		}
		if b.distStd != nil {
			cb = cb.WithDistanceStd(*b.distStd)
		}
		board.chips[p] = cb.Build()
	}

	for local := range board.chips {
		for _, dir := range internalDirections {
			neighbor := local.Add(dir)
			other, ok := board.chips[neighbor]
			if !ok {
				continue
			}
			here := board.chips[local]

			forward := link.NewHandshake(b.sched, b.handshakeSendCycles, b.handshakeAckCycles)
			backward := link.NewHandshake(b.sched, b.handshakeSendCycles, b.handshakeAckCycles)

			here.SetOutLink(dir, forward)
			other.SetInLink(dir.Opposite(), forward)

			other.SetOutLink(dir.Opposite(), backward)
			here.SetInLink(dir, backward)
		}
	}

	return board
}

// SetMeshDimensions sets the full torus mesh extent on every chip.
func (bd *Board) SetMeshDimensions(width, height int) {
	for _, c := range bd.chips {
		c.SetMeshDimensions(width, height)
	}
}

// SetMeshPositionLeft places the board's left half (chips with local
// x < 0), normalizing their local coordinates into the board's small
// non-negative footprint before adding (x,y).
func (bd *Board) SetMeshPositionLeft(x, y int) {
	for local, c := range bd.chips {
		if local.X < 0 {
			c.SetPosition(topology.Position{X: x + local.X + 4, Y: y + local.Y + 3})
		}
	}
}

// SetMeshPositionRight places the board's right half (chips with local
// x >= 0).
func (bd *Board) SetMeshPositionRight(x, y int) {
	for local, c := range bd.chips {
		if local.X >= 0 {
			c.SetPosition(topology.Position{X: x + local.X, Y: y + local.Y + 3})
		}
	}
}

// SetMeshPositionTop places the board's top half (chips with local
// y >= 1), independent of SetMeshPositionLeft/Right — used to wrap a
// board's top rows around a torus seam without disturbing the rest.
func (bd *Board) SetMeshPositionTop(x, y int) {
	for local, c := range bd.chips {
		if local.Y >= 1 {
			c.SetPosition(topology.Position{X: x + local.X + 3, Y: y + local.Y - 1})
		}
	}
}

// SetMeshPositionBottom places the board's bottom half (chips with local
// y <= 0).
func (bd *Board) SetMeshPositionBottom(x, y int) {
	for local, c := range bd.chips {
		if local.Y <= 0 {
			c.SetPosition(topology.Position{X: x + local.X + 4, Y: y + local.Y + 3})
		}
	}
}

// SetMeshPosition places every chip on the board so its bottom-leftmost
// position lands at (x,y): the left half lands at x..x+3, the right half
// is shifted a further 4 to land at x+4..x+7, so the two halves tile
// without overlap.
func (bd *Board) SetMeshPosition(x, y int) {
	bd.SetMeshPositionLeft(x, y)
	bd.SetMeshPositionRight(x+4, y)
}

// ChipAt returns the chip at the given local hexagon position, or nil if
// that position is not part of the board.
func (bd *Board) ChipAt(local topology.Position) *chip.Chip {
	return bd.chips[local]
}

// Chips returns every chip on the board, for whole-mesh introspection.
func (bd *Board) Chips() []*chip.Chip {
	chips := make([]*chip.Chip, 0, len(bd.chips))
	for _, c := range bd.chips {
		chips = append(chips, c)
	}
	return chips
}

// EdgeChip returns the chip and outward direction at the given
// (edge, index) slot of the board's boundary, per
// topology.HexagonEdgeLink. index ranges over
// topology.NumHexagonEdgeLinks(Radius, edge).
func (bd *Board) EdgeChip(edge topology.Edge, index int) (*chip.Chip, topology.Direction) {
	local, dir := topology.HexagonEdgeLink(bd.radius, edge, index)
	return bd.chips[local], dir
}

// NumEdgeLinks returns the number of outward-facing link slots on the
// given edge.
func (bd *Board) NumEdgeLinks(edge topology.Edge) int {
	return topology.NumHexagonEdgeLinks(bd.radius, edge)
}

// Start arms every chip on the board.
func (bd *Board) Start() {
	for _, c := range bd.chips {
		c.Start()
	}
}

// Counters returns the sum of every chip's counters, keyed the same way
// a single chip's Counters does.
func (bd *Board) Counters() map[string]int {
	totals := make(map[string]int)
	for _, c := range bd.chips {
		for k, v := range c.Counters() {
			totals[k] += v
		}
	}
	return totals
}
