package router_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/golang/mock/gomock"

	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/link/mocks"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/router"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

var _ = Describe("Router expiry", func() {
	It("drops a packet whose birth phase has aged two steps", func() {
		sched := scheduler.New()
		system := netclock.NewSystem(sched, 10)
		system.Start()

		r := router.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithPeriod(1).
			WithWaitBeforeEmergency(100).
			WithWaitBeforeDrop(100).
			Build()
		r.SetMeshDimensions(4, 4)
		r.SetPosition(topology.Position{X: 0, Y: 0})

		injection := link.NewBuffer(1)
		exit := link.NewBuffer(1)
		in := link.NewBuffer(1)
		r.SetInjectionLink(injection)
		r.SetExitLink(exit)
		r.SetInLink(topology.E, in)
		r.Start()

		p := system.NewPacket("p", topology.Position{X: 2, Y: 2}, 8, topology.Position{X: 0, Y: 0}, 0)
		in.Send(p)

		sched.RunUntil(25)

		Expect(p.Dropped).To(BeTrue())
		Expect(r.Counters()["timestamp_packet_timeout"]).To(Equal(1))
	})

	It("drops a packet that dwells past wait_before_drop", func() {
		sched := scheduler.New()
		system := netclock.NewSystem(sched, 1000)
		system.Start()

		r := router.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithPeriod(1).
			WithWaitBeforeEmergency(1000).
			WithWaitBeforeDrop(2).
			Build()
		r.SetMeshDimensions(4, 4)
		r.SetPosition(topology.Position{X: 0, Y: 0})

		injection := link.NewBuffer(1)
		exit := link.NewBuffer(1)
		in := link.NewBuffer(1)
		blockedOut := link.NewDead()
		r.SetInjectionLink(injection)
		r.SetExitLink(exit)
		r.SetInLink(topology.E, in)
		r.SetOutLink(topology.E, blockedOut)
		r.Start()

		p := system.NewPacket("p", topology.Position{X: 1, Y: 0}, 8, topology.Position{X: 0, Y: 0}, 0)
		in.Send(p)

		sched.RunUntil(6)

		Expect(p.Dropped).To(BeTrue())
		Expect(r.Counters()["router_packet_timeout"]).To(Equal(1))
	})
})

var _ = Describe("Router routing policy", func() {
	It("falls back to the emergency output one step CCW when the primary is blocked", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		sched := scheduler.New()
		system := netclock.NewSystem(sched, 1000)
		system.Start()

		r := router.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithPeriod(1).
			WithWaitBeforeEmergency(0).
			WithWaitBeforeDrop(1000).
			Build()
		r.SetMeshDimensions(4, 4)
		r.SetPosition(topology.Position{X: 0, Y: 0})

		p := system.NewPacket("p", topology.Position{X: 1, Y: 0}, 8, topology.Position{X: 0, Y: 0}, 0)

		in := mocks.NewMockLink(ctrl)
		in.EXPECT().CanReceive().Return(true).AnyTimes()
		in.EXPECT().Peek().Return(p).AnyTimes()
		in.EXPECT().Receive().Return(p).Times(1)

		primary := mocks.NewMockLink(ctrl)
		primary.EXPECT().CanSend().Return(false).AnyTimes()

		emergency := mocks.NewMockLink(ctrl)
		emergency.EXPECT().CanSend().Return(true).AnyTimes()
		emergency.EXPECT().Send(p).Times(1)

		injection := mocks.NewMockLink(ctrl)
		injection.EXPECT().CanReceive().Return(false).AnyTimes()
		exit := mocks.NewMockLink(ctrl)
		exit.EXPECT().CanReceive().Return(false).AnyTimes()

		r.SetInjectionLink(injection)
		r.SetExitLink(exit)
		r.SetInLink(topology.E, in)
		r.SetOutLink(topology.E, primary)
		r.SetOutLink(topology.E.NextCCW(), emergency)
		r.Start()

		sched.RunUntil(1)

		Expect(p.Emergency).To(BeTrue())
		Expect(r.Counters()["packet_emergency_routed"]).To(Equal(1))
	})

	It("rotates which input wins a contended output across cycles", func() {
		sched := scheduler.New()
		system := netclock.NewSystem(sched, 1000)
		system.Start()

		r := router.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			WithPeriod(1).
			WithWaitBeforeEmergency(1000).
			WithWaitBeforeDrop(1000).
			Build()
		r.SetMeshDimensions(4, 4)
		r.SetPosition(topology.Position{X: 0, Y: 0})

		injection := link.NewBuffer(2)
		exit := link.NewBuffer(2)
		in := link.NewBuffer(2)
		out := link.NewBuffer(1)
		r.SetInjectionLink(injection)
		r.SetExitLink(exit)
		r.SetInLink(topology.E, in)
		r.SetOutLink(topology.E, out)
		r.Start()

		p1 := system.NewPacket("p1", topology.Position{X: 1, Y: 0}, 8, topology.Position{X: 0, Y: 0}, 0)
		p2 := system.NewPacket("p2", topology.Position{X: 1, Y: 0}, 8, topology.Position{X: 0, Y: 0}, 0)
		injection.Send(p1)
		in.Send(p2)

		// Cycle 1: the direction in-link precedes injection in this
		// rotation, so p2 wins the single out slot and p1 stays queued.
		sched.RunUntil(1)
		Expect(r.Counters()["packets_routed"]).To(Equal(1))
		Expect(out.Receive()).To(Equal(p2))

		// Draining out frees the slot; the rotation has now advanced past
		// the direction in-link, so injection's p1 wins it this time.
		sched.RunUntil(2)
		Expect(r.Counters()["packets_routed"]).To(Equal(2))
		Expect(out.Receive()).To(Equal(p1))
	})
})
