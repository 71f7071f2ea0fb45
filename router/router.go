// Package router implements the per-chip forwarding state machine:
// round-robin service of seven inputs, direction-order routing,
// emergency re-routing and packet expiry.
package router

import (
	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/packet"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

// numInputs is the six direction in-links plus the local injection link.
const numInputs = topology.NumDirections + 1

// injectionInput is the pseudo-direction index identifying the
// injection link among the seven inputs.
const injectionInput = topology.NumDirections

// Router is a chip's forwarding engine.
type Router struct {
	sched  *scheduler.Scheduler
	system *netclock.System

	period              int64
	waitBeforeEmergency int
	waitBeforeDrop      int

	position      topology.Position
	width, height int

	injection link.Link
	exit      link.Link
	inLinks   [topology.NumDirections]link.Link
	outLinks  [topology.NumDirections]link.Link

	firstLink int

	timestampTimeout int
	routerTimeout    int
	routed           int
	emergencyRouted  int
	cycles           int
	idleCycles       int
	blockedCycles    int
}

// Builder constructs a Router, following the teacher's fluent With*-then-
// Build convention.
type Builder struct {
	sched               *scheduler.Scheduler
	system              *netclock.System
	period              int64
	waitBeforeEmergency int
	waitBeforeDrop      int
	injection           link.Link
	exit                link.Link
}

// NewBuilder creates a Router builder.
func NewBuilder() Builder {
	return Builder{period: 1}
}

func (b Builder) WithScheduler(sched *scheduler.Scheduler) Builder {
	b.sched = sched
	return b
}

func (b Builder) WithSystem(system *netclock.System) Builder {
	b.system = system
	return b
}

func (b Builder) WithPeriod(period int64) Builder {
	b.period = period
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

func (b Builder) WithInjectionLink(l link.Link) Builder {
	b.injection = l
	return b
}

func (b Builder) WithExitLink(l link.Link) Builder {
	b.exit = l
	return b
}

// Build creates the Router. It is not started — call Start once in/out
// links are wired.
func (b Builder) Build() *Router {
	if b.sched == nil || b.system == nil {
		panic("router: requires a scheduler and system")
	}
	r := &Router{
		sched:               b.sched,
		system:              b.system,
		period:              b.period,
		waitBeforeEmergency: b.waitBeforeEmergency,
		waitBeforeDrop:      b.waitBeforeDrop,
		injection:           b.injection,
		exit:                b.exit,
		width:               1,
		height:              1,
	}
	for d := topology.Direction(0); d < topology.NumDirections; d++ {
		r.inLinks[d] = link.NewDead()
		r.outLinks[d] = link.NewDead()
	}
	return r
}

// SetMeshDimensions sets the full torus mesh extent used for shortest-path
// routing.
func (r *Router) SetMeshDimensions(width, height int) {
	if width <= 0 || height <= 0 {
		panic("router: invalid mesh dimensions")
	}
	r.width, r.height = width, height
}

// SetPosition sets this router's own chip position.
func (r *Router) SetPosition(p topology.Position) {
	r.position = p
}

// Position returns this router's own chip position.
func (r *Router) Position() topology.Position {
	return r.position
}

// SetInLink installs the in-link for direction d, replacing its dead-link
// sentinel.
func (r *Router) SetInLink(d topology.Direction, l link.Link) {
	r.inLinks[d] = l
}

// SetOutLink installs the out-link for direction d, replacing its
// dead-link sentinel.
func (r *Router) SetOutLink(d topology.Direction, l link.Link) {
	r.outLinks[d] = l
}

// InLink returns the in-link currently installed for direction d.
func (r *Router) InLink(d topology.Direction) link.Link {
	return r.inLinks[d]
}

// OutLink returns the out-link currently installed for direction d.
func (r *Router) OutLink(d topology.Direction) link.Link {
	return r.outLinks[d]
}

// SetInjectionLink replaces the router's injection input link.
func (r *Router) SetInjectionLink(l link.Link) {
	r.injection = l
}

// SetExitLink replaces the router's exit output link.
func (r *Router) SetExitLink(l link.Link) {
	r.exit = l
}

// Start arms the first routing cycle.
func (r *Router) Start() {
	r.sched.ScheduleLater(r.tick, r.period)
}

func (r *Router) inputLink(i int) link.Link {
	if i == injectionInput {
		return r.injection
	}
	return r.inLinks[i]
}

func (r *Router) tick() {
	r.expire()
	r.route()
	r.cycles++
	r.sched.ScheduleLater(r.tick, r.period)
}

// expire drains each input's head-of-line expired or over-dwell packets,
// per spec: timestamp expiry first, then the per-packet wait counter,
// stopping at the first packet that is neither.
func (r *Router) expire() {
	now := r.sched.Clock()
	phase := r.system.CurrentPhase()

inputs:
	for i := 0; i < numInputs; i++ {
		l := r.inputLink(i)
		for l.CanReceive() {
			p := l.Peek()
			switch {
			case p.Expired(phase):
				l.Receive()
				r.timestampTimeout++
				p.RecordDrop(now, r.position)
			case p.Wait > r.waitBeforeDrop:
				l.Receive()
				r.routerTimeout++
				p.RecordDrop(now, r.position)
			default:
				continue inputs
			}
		}
	}
}

// route services the seven inputs in round-robin order, forwarding or
// emergency-forwarding whatever packet is at the head of each, per
// spec.md's routing policy.
func (r *Router) route() {
	now := r.sched.Clock()

	order := make([]int, numInputs)
	for i := range order {
		order[i] = (r.firstLink + i) % numInputs
	}
	r.firstLink = (r.firstLink + 1) % numInputs

	hadInput := false
	madeProgress := false

	for _, idx := range order {
		in := r.inputLink(idx)
		if !in.CanReceive() {
			continue
		}
		hadInput = true

		p := in.Peek()
		p.Wait++

		primary, emergency := r.outputsFor(idx, p)

		switch {
		case primary.CanSend():
			in.Receive()
			p.Emergency = false
			p.Wait = 0
			p.Distance++
			primary.Send(p)
			r.routed++
			madeProgress = true
		case p.Wait > r.waitBeforeEmergency && emergency != primary && emergency.CanSend():
			in.Receive()
			p.Emergency = true
			p.Wait = 0
			p.Distance++
			p.RecordEmergencyHop(now, r.position)
			emergency.Send(p)
			r.emergencyRouted++
			madeProgress = true
		}
	}

	if !hadInput {
		r.idleCycles++
	} else if !madeProgress {
		r.blockedCycles++
	}
}

// outputsFor computes the primary and emergency candidate output links
// for a packet arriving on input idx (0..5 a Direction, 6 = injection).
func (r *Router) outputsFor(idx int, p *packet.Packet) (primary, emergency link.Link) {
	if p.Emergency {
		// Already in emergency mode: forward to the direction one step
		// counter-clockwise from where it arrived — the hop that completes
		// the bypass back onto its originally-intended direction.
		arrival := topology.Direction(idx)
		out := r.outLinks[arrival.NextCCW()]
		return out, out
	}

	if p.Destination == r.position {
		return r.exit, r.exit
	}

	bounds := topology.Position{X: r.width, Y: r.height}
	path := topology.GetPath(r.position, p.Destination, &bounds)
	dir, ok := topology.PrimaryDirection(path)
	if !ok {
		// Shortest path reduced to zero without a position match: treat as
		// arrived, matching the destination branch above.
		return r.exit, r.exit
	}

	primary = r.outLinks[dir]
	emergency = r.outLinks[dir.NextCCW()]
	return primary, emergency
}

// Counters returns the router's string-keyed counter map, matching
// spec.md's external counter name-space.
func (r *Router) Counters() map[string]int {
	return map[string]int{
		"timestamp_packet_timeout": r.timestampTimeout,
		"router_packet_timeout":    r.routerTimeout,
		"packets_routed":           r.routed,
		"packet_emergency_routed":  r.emergencyRouted,
		"router_cycles":            r.cycles,
		"router_idle_cycles":       r.idleCycles,
		"router_blocked_cycles":    r.blockedCycles,
	}
}
