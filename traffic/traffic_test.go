package traffic_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
	"github.com/sarchlab/hextorus/traffic"
)

var _ = Describe("Generator", func() {
	var (
		sched     *scheduler.Scheduler
		system    *netclock.System
		injection *link.Buffer
		exit      *link.Buffer
	)

	BeforeEach(func() {
		sched = scheduler.New()
		system = netclock.NewSystem(sched, 1000)
	})

	It("injects a packet every cycle when packet_prob is 1 and the injection link has room", func() {
		injection = link.NewBuffer(4)
		exit = link.NewBuffer(4)

		gen := traffic.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithPacketProb(1).
			WithInjectionLink(injection).
			WithExitLink(exit).
			Build()
		gen.SetMeshDimensions(4, 4)
		gen.Start()

		sched.RunUntil(1)

		Expect(injection.Len()).To(Equal(1))
		Expect(gen.Counters()["generator_injected_packets"]).To(Equal(1))
		Expect(gen.Counters()["generator_dropped_packets"]).To(Equal(0))
	})

	It("counts a drop instead of blocking when the injection link is full", func() {
		injection = link.NewBuffer(1)
		exit = link.NewBuffer(4)

		gen := traffic.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithPacketProb(1).
			WithInjectionLink(injection).
			WithExitLink(exit).
			Build()
		gen.SetMeshDimensions(4, 4)
		gen.Start()

		sched.RunUntil(1)
		sched.RunUntil(2)

		Expect(gen.Counters()["generator_injected_packets"]).To(Equal(1))
		Expect(gen.Counters()["generator_dropped_packets"]).To(Equal(1))
	})

	It("drains every packet waiting on the exit link and stamps its receive trace", func() {
		injection = link.NewBuffer(4)
		exit = link.NewBuffer(4)

		gen := traffic.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithPacketProb(0).
			WithInjectionLink(injection).
			WithExitLink(exit).
			Build()
		gen.SetMeshDimensions(4, 4)

		p1 := system.NewPacket(gen, topology.Position{}, 40, topology.Position{}, sched.Clock())
		p2 := system.NewPacket(gen, topology.Position{}, 40, topology.Position{}, sched.Clock())
		exit.Send(p1)
		exit.Send(p2)

		gen.Start()
		sched.RunUntil(1)

		Expect(gen.Counters()["generator_packets_received"]).To(Equal(2))
		Expect(p1.Received).To(BeTrue())
		Expect(p2.Received).To(BeTrue())
	})

	It("samples a uniform destination within mesh bounds when no distance_std is set", func() {
		injection = link.NewBuffer(64)
		exit = link.NewBuffer(4)

		gen := traffic.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithRand(rand.New(rand.NewSource(7))).
			WithPacketProb(1).
			WithInjectionLink(injection).
			WithExitLink(exit).
			Build()
		gen.SetMeshDimensions(6, 3)
		gen.Start()

		for i := uint64(1); i <= 20; i++ {
			sched.RunUntil(i)
		}

		Expect(injection.Len()).To(Equal(20))
		for injection.CanReceive() {
			p := injection.Receive()
			Expect(p.Destination.X).To(BeNumerically(">=", 0))
			Expect(p.Destination.X).To(BeNumerically("<", 6))
			Expect(p.Destination.Y).To(BeNumerically(">=", 0))
			Expect(p.Destination.Y).To(BeNumerically("<", 3))
		}
	})

	It("samples a destination around its own position, wrapped to mesh bounds, when distance_std is set", func() {
		injection = link.NewBuffer(64)
		exit = link.NewBuffer(4)

		gen := traffic.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithRand(rand.New(rand.NewSource(7))).
			WithPacketProb(1).
			WithDistanceStd(1.5).
			WithInjectionLink(injection).
			WithExitLink(exit).
			Build()
		gen.SetMeshDimensions(6, 6)
		gen.SetPosition(topology.Position{X: 3, Y: 3})
		gen.Start()

		sched.RunUntil(1)

		p := injection.Receive()
		Expect(p.Destination.X).To(BeNumerically(">=", 0))
		Expect(p.Destination.X).To(BeNumerically("<", 6))
		Expect(p.Destination.Y).To(BeNumerically(">=", 0))
		Expect(p.Destination.Y).To(BeNumerically("<", 6))
	})
})
