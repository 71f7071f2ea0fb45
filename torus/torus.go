// Package torus assembles width*height*3 hexagonal boards into a
// gapless toroidal mesh and wires their boundaries with aggregated
// multiplexed inter-board links.
package torus

import (
	"math/rand"

	"github.com/sarchlab/hextorus/board"
	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

// boardOffset is one of the three board placements replicated across a
// torus tile; z indexes into this table.
type boardOffset struct{ dbx, dby int }

var boardOffsets = [3]boardOffset{
	{0, 0}, // z=0: bottom-left
	{1, 2}, // z=1: top
	{2, 1}, // z=2: right
}

// neighborLink describes one of the three forward inter-board relations
// a board wires, enumerated from exactly one side so every inter-board
// slot is wired exactly once.
type neighborLink struct {
	dbx, dby int
	edge     topology.Edge
}

var neighborLinks = [3]neighborLink{
	{1, 2, topology.Top},
	{2, 1, topology.TopRight},
	{1, -1, topology.BottomRight},
}

// boardKey identifies a board by its (bx,by) grid coordinate.
type boardKey struct{ bx, by int }

// Torus is the top-level assembled network: width*height*3 boards tiled
// without gaps into a (12*width)x(12*height) chip mesh.
type Torus struct {
	width, height int
	boards        map[boardKey]*board.Board

	sched *scheduler.Scheduler

	aggAcceptPeriod int64
	aggBufferLength int64
	aggLatency      int64
	aggSendCycles   int64
	aggAckCycles    int64
}

// Builder constructs a Torus, mirroring the board/chip fluent
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

	aggAcceptPeriod int64
	aggBufferLength int64
	aggLatency      int64
	aggSendCycles   int64
	aggAckCycles    int64
}

// NewBuilder creates a Torus builder with conservative defaults for the
// inter-board aggregated links.
func NewBuilder() Builder {
	return Builder{
		routerPeriod:        1,
		generatorPeriod:     1,
		handshakeSendCycles: 1,
		handshakeAckCycles:  1,
		injectionBufferLen:  4,
		aggAcceptPeriod:     1,
		aggBufferLength:     4,
		aggLatency:          1,
		aggSendCycles:       1,
		aggAckCycles:        1,
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

// WithInjectionBufferLength sets injection_buffer_length for every chip
// in the torus; each chip's exit link back to its generator is always
// unbounded.
func (b Builder) WithInjectionBufferLength(length int) Builder {
	b.injectionBufferLen = length
	return b
}

// WithAggregatedLinkParams sets the SATA-style aggregated inter-board
// link's per-channel timing and the handler task's accept period.
func (b Builder) WithAggregatedLinkParams(acceptPeriod, bufferLength, latency, sendCycles, ackCycles int64) Builder {
	b.aggAcceptPeriod = acceptPeriod
	b.aggBufferLength = bufferLength
	b.aggLatency = latency
	b.aggSendCycles = sendCycles
	b.aggAckCycles = ackCycles
	return b
}

// Build assembles width*height*3 boards into a toroidal mesh and wires
// every inter-board edge with aggregated links. width and height must be
// positive; the resulting chip mesh spans (12*width)x(12*height)
// positions.
func (b Builder) Build(width, height int) *Torus {
	if b.sched == nil || b.system == nil {
		panic("torus: requires a scheduler and system")
	}
	if width <= 0 || height <= 0 {
		panic("torus: width and height must be positive")
	}

	t := &Torus{
		width:           width,
		height:          height,
		boards:          make(map[boardKey]*board.Board),
		sched:           b.sched,
		aggAcceptPeriod: b.aggAcceptPeriod,
		aggBufferLength: b.aggBufferLength,
		aggLatency:      b.aggLatency,
		aggSendCycles:   b.aggSendCycles,
		aggAckCycles:    b.aggAckCycles,
	}

	meshWidth, meshHeight := 12*width, 12*height
	bxCount, byCount := 3*width, 3*height

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			for z := 0; z < 3; z++ {
				off := boardOffsets[z]
				bx := (3*x + off.dbx) % bxCount
				by := (3*y + off.dby) % byCount

				bb := board.NewBuilder().
					WithScheduler(b.sched).
					WithSystem(b.system).
					WithRouterPeriod(b.routerPeriod).
					WithGeneratorPeriod(b.generatorPeriod).
					WithWaitBeforeEmergency(b.waitBeforeEmergency).
					WithWaitBeforeDrop(b.waitBeforeDrop).
					WithPacketProb(b.packetProb).
					WithHandshakeTiming(b.handshakeSendCycles, b.handshakeAckCycles).
					WithInjectionBufferLength(b.injectionBufferLen)
				if b.rng != nil {
					bb = bb.WithRand(b.rng)
				}
				if b.distStd != nil {
					bb = bb.WithDistanceStd(*b.distStd)
				}
				bd := bb.Build()

				bd.SetMeshDimensions(meshWidth, meshHeight)
				bd.SetMeshPosition(bx*4, by*4)
				if bx == bxCount-1 {
					bd.SetMeshPositionRight(0, by*4)
				}
				if by == byCount-1 {
					bd.SetMeshPositionTop(bx*4+1, 0)
				}

				t.boards[boardKey{bx, by}] = bd
			}
		}
	}

	for key, a := range t.boards {
		for _, nl := range neighborLinks {
			neighborKey := boardKey{
				bx: ((key.bx+nl.dbx)%bxCount + bxCount) % bxCount,
				by: ((key.by+nl.dby)%byCount + byCount) % byCount,
			}
			bd := t.boards[neighborKey]
			t.wireBoards(a, bd, nl.edge)
		}
	}

	return t
}

// wireBoards installs the pair of aggregated links between board a's
// edge and board bd's opposite edge, one per direction.
func (t *Torus) wireBoards(a, bd *board.Board, edge topology.Edge) {
	opposite := edge.Opposite()
	channels := a.NumEdgeLinks(edge)

	aToB := link.NewAggregated(t.sched, channels, t.aggAcceptPeriod, t.aggBufferLength, t.aggLatency, t.aggSendCycles, t.aggAckCycles)
	bToA := link.NewAggregated(t.sched, channels, t.aggAcceptPeriod, t.aggBufferLength, t.aggLatency, t.aggSendCycles, t.aggAckCycles)
	aToB.Start()
	bToA.Start()

	for k := 0; k < channels; k++ {
		chipA, dirA := a.EdgeChip(edge, k)
		chipB, dirB := bd.EdgeChip(opposite, k)

		chipA.SetOutLink(dirA, aToB.Channel(k))
		chipB.SetInLink(dirB, aToB.Channel(k))

		chipB.SetOutLink(dirB, bToA.Channel(k))
		chipA.SetInLink(dirA, bToA.Channel(k))
	}
}

// Start arms every board in the torus.
func (t *Torus) Start() {
	for _, bd := range t.boards {
		bd.Start()
	}
}

// Counters returns the sum of every board's counters.
func (t *Torus) Counters() map[string]int {
	totals := make(map[string]int)
	for _, bd := range t.boards {
		for k, v := range bd.Counters() {
			totals[k] += v
		}
	}
	return totals
}

// BoardAt returns the board at the given (bx,by) grid coordinate, or nil
// if out of range.
func (t *Torus) BoardAt(bx, by int) *board.Board {
	return t.boards[boardKey{bx, by}]
}

// Boards returns every board in the torus, for whole-mesh introspection
// such as verifying chip coverage or connectivity.
func (t *Torus) Boards() []*board.Board {
	boards := make([]*board.Board, 0, len(t.boards))
	for _, bd := range t.boards {
		boards = append(boards, bd)
	}
	return boards
}

// Width returns the torus's board-tile width (the chip mesh spans
// 12*Width positions along x).
func (t *Torus) Width() int {
	return t.width
}

// Height returns the torus's board-tile height (the chip mesh spans
// 12*Height positions along y).
func (t *Torus) Height() int {
	return t.height
}
