// Package traffic implements the per-chip stochastic packet source/sink.
package traffic

import (
	"math/rand"

	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

const injectedPacketBits = 40

// Generator is a per-chip traffic source and sink. It is constructed
// without mesh geometry and configured via SetMeshDimensions/SetPosition
// once the surrounding chip has been wired into its final torus
// position — the spec's Open-Question resolution in favor of setters,
// since chips are built before torus assembly fixes their final place in
// the mesh.
type Generator struct {
	sched  *scheduler.Scheduler
	system *netclock.System
	rng    *rand.Rand

	period      int64
	packetProb  float64
	distanceStd *float64

	injection link.Link
	exit      link.Link

	width, height int
	position      topology.Position

	injected int
	dropped  int
	received int
	cycles   int
}

// Builder constructs a Generator, mirroring the teacher's fluent
// With*-then-Build convention.
type Builder struct {
	sched      *scheduler.Scheduler
	system     *netclock.System
	rng        *rand.Rand
	period     int64
	packetProb float64
	distStd    *float64
	injection  link.Link
	exit       link.Link
}

// NewBuilder creates a Generator builder.
func NewBuilder() Builder {
	return Builder{period: 1, rng: rand.New(rand.NewSource(1))}
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

func (b Builder) WithClockPeriod(period int64) Builder {
	b.period = period
	return b
}

func (b Builder) WithPacketProb(prob float64) Builder {
	b.packetProb = prob
	return b
}

// WithDistanceStd sets the standard deviation of the truncated-normal
// destination distribution; omit to use a uniform destination over the
// full mesh.
func (b Builder) WithDistanceStd(std float64) Builder {
	b.distStd = &std
	return b
}

func (b Builder) WithInjectionLink(l link.Link) Builder {
	b.injection = l
	return b
}

func (b Builder) WithExitLink(l link.Link) Builder {
	b.exit = l
	return b
}

// Build creates the Generator. It is not started — call Start once the
// chip's geometry has been finalized.
func (b Builder) Build() *Generator {
	if b.sched == nil || b.system == nil {
		panic("traffic: generator requires a scheduler and system")
	}
	rng := b.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Generator{
		sched:       b.sched,
		system:      b.system,
		rng:         rng,
		period:      b.period,
		packetProb:  b.packetProb,
		distanceStd: b.distStd,
		injection:   b.injection,
		exit:        b.exit,
		width:       1,
		height:      1,
	}
}

// SetMeshDimensions sets the full mesh extent used for destination
// sampling and wraparound.
func (g *Generator) SetMeshDimensions(width, height int) {
	if width <= 0 || height <= 0 {
		panic("traffic: invalid mesh dimensions")
	}
	g.width, g.height = width, height
}

// SetPosition sets this generator's own chip position.
func (g *Generator) SetPosition(p topology.Position) {
	g.position = p
}

// SetInjectionLink replaces the generator's injection link.
func (g *Generator) SetInjectionLink(l link.Link) {
	g.injection = l
}

// SetExitLink replaces the generator's exit link.
func (g *Generator) SetExitLink(l link.Link) {
	g.exit = l
}

// Start arms the first generator cycle.
func (g *Generator) Start() {
	g.sched.ScheduleLater(g.tick, g.period)
}

func (g *Generator) tick() {
	for g.exit.CanReceive() {
		p := g.exit.Receive()
		p.Received = true
		p.ReceiveTime = g.sched.Clock()
		g.received++
	}

	g.cycles++

	if g.rng.Float64() < g.packetProb {
		dest := g.chooseDestination()
		if !g.injection.CanSend() {
			g.dropped++
		} else {
			p := g.system.NewPacket(g, dest, injectedPacketBits, g.position, g.sched.Clock())
			g.injection.Send(p)
			g.injected++
		}
	}

	g.sched.ScheduleLater(g.tick, g.period)
}

func (g *Generator) chooseDestination() topology.Position {
	if g.distanceStd == nil {
		return topology.Position{
			X: g.rng.Intn(g.width),
			Y: g.rng.Intn(g.height),
		}
	}

	dx := int(g.rng.NormFloat64() * (*g.distanceStd))
	dy := int(g.rng.NormFloat64() * (*g.distanceStd))
	return topology.Position{X: g.position.X + dx, Y: g.position.Y + dy}.Mod(g.width, g.height)
}

// Counters returns the generator's string-keyed counter map, matching
// spec.md's external counter name-space.
func (g *Generator) Counters() map[string]int {
	return map[string]int{
		"generator_injected_packets": g.injected,
		"generator_dropped_packets":  g.dropped,
		"generator_packets_received": g.received,
		"generator_cycles":           g.cycles,
	}
}
