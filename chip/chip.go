// Package chip bundles one router with its local traffic generator, the
// zero-latency buffer pair that connects them, and the six direction link
// slots a board wires together into a mesh.
package chip

import (
	"math/rand"

	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/router"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
	"github.com/sarchlab/hextorus/traffic"
)

// defaultInjectionBufferLength is injection_buffer_length's default depth,
// matching the original experiment driver's INJECTION_BUFFER_LENGTH.
const defaultInjectionBufferLength = 4

// Chip is one router/generator pair, addressable at a single mesh
// Position once a board or torus sets it.
type Chip struct {
	router    *router.Router
	generator *traffic.Generator
}

// Builder constructs a Chip, mirroring the router/generator fluent
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
	injectionBufferLen  int
}

// NewBuilder creates a Chip builder with the spec's default periods.
func NewBuilder() Builder {
	return Builder{
		routerPeriod:       1,
		generatorPeriod:    1,
		injectionBufferLen: defaultInjectionBufferLength,
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

// WithInjectionBufferLength sets injection_buffer_length, the capacity of
// the buffer between this chip's generator and its router's injection
// input. The exit link back to the generator is always unbounded.
func (b Builder) WithInjectionBufferLength(length int) Builder {
	b.injectionBufferLen = length
	return b
}

// Build creates the Chip's router and generator, wired to each other
// through a local buffer pair. It is not started and has no position or
// mesh dimensions yet — a board assigns those once the chip is placed.
func (b Builder) Build() *Chip {
	if b.sched == nil || b.system == nil {
		panic("chip: requires a scheduler and system")
	}

	toRouter := link.NewBuffer(b.injectionBufferLen)
	toGenerator := link.NewBuffer(0)

	genBuilder := traffic.NewBuilder().
		WithScheduler(b.sched).
		WithSystem(b.system).
		WithClockPeriod(b.generatorPeriod).
		WithPacketProb(b.packetProb).
		WithInjectionLink(toRouter).
		WithExitLink(toGenerator)
	if b.rng != nil {
		genBuilder = genBuilder.WithRand(b.rng)
	}
	if b.distStd != nil {
		genBuilder = genBuilder.WithDistanceStd(*b.distStd)
	}
	gen := genBuilder.Build()

	rtr := router.NewBuilder().
		WithScheduler(b.sched).
		WithSystem(b.system).
		WithPeriod(b.routerPeriod).
		WithWaitBeforeEmergency(b.waitBeforeEmergency).
		WithWaitBeforeDrop(b.waitBeforeDrop).
		WithInjectionLink(toRouter).
		WithExitLink(toGenerator).
		Build()

	return &Chip{router: rtr, generator: gen}
}

// SetMeshDimensions sets the full torus mesh extent used by this chip's
// router and generator for shortest-path routing and destination sampling.
func (c *Chip) SetMeshDimensions(width, height int) {
	c.router.SetMeshDimensions(width, height)
	c.generator.SetMeshDimensions(width, height)
}

// SetPosition sets this chip's own mesh position.
func (c *Chip) SetPosition(p topology.Position) {
	c.router.SetPosition(p)
	c.generator.SetPosition(p)
}

// Position returns this chip's own mesh position.
func (c *Chip) Position() topology.Position {
	return c.router.Position()
}

// SetInLink installs the in-link for direction d.
func (c *Chip) SetInLink(d topology.Direction, l link.Link) {
	c.router.SetInLink(d, l)
}

// SetOutLink installs the out-link for direction d.
func (c *Chip) SetOutLink(d topology.Direction, l link.Link) {
	c.router.SetOutLink(d, l)
}

// InLink returns the in-link currently installed for direction d.
func (c *Chip) InLink(d topology.Direction) link.Link {
	return c.router.InLink(d)
}

// OutLink returns the out-link currently installed for direction d.
func (c *Chip) OutLink(d topology.Direction) link.Link {
	return c.router.OutLink(d)
}

// Router returns the chip's router, for board/torus-level introspection.
func (c *Chip) Router() *router.Router {
	return c.router
}

// Generator returns the chip's traffic generator, for board/torus-level
// introspection.
func (c *Chip) Generator() *traffic.Generator {
	return c.generator
}

// Start arms the chip's router and generator.
func (c *Chip) Start() {
	c.router.Start()
	c.generator.Start()
}

// Counters returns the merged router and generator counter maps.
func (c *Chip) Counters() map[string]int {
	counters := make(map[string]int)
	for k, v := range c.router.Counters() {
		counters[k] = v
	}
	for k, v := range c.generator.Counters() {
		counters[k] = v
	}
	return counters
}
