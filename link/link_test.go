package link_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hextorus/link"
	"github.com/sarchlab/hextorus/packet"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

var _ = Describe("Dead link", func() {
	It("never sends or receives", func() {
		d := link.NewDead()
		Expect(d.CanSend()).To(BeFalse())
		Expect(d.CanReceive()).To(BeFalse())
	})
})

var _ = Describe("Buffer link", func() {
	It("is zero-latency FIFO within capacity", func() {
		b := link.NewBuffer(2)
		p1 := packet.New("p1", topology.Position{}, 8)
		p2 := packet.New("p2", topology.Position{}, 8)

		Expect(b.CanSend()).To(BeTrue())
		b.Send(p1)
		b.Send(p2)
		Expect(b.CanSend()).To(BeFalse())

		Expect(b.CanReceive()).To(BeTrue())
		Expect(b.Peek()).To(Equal(p1))
		Expect(b.Receive()).To(Equal(p1))
		Expect(b.Receive()).To(Equal(p2))
		Expect(b.CanReceive()).To(BeFalse())
	})

	It("panics on send past capacity", func() {
		b := link.NewBuffer(1)
		b.Send(packet.New(nil, topology.Position{}, 8))
		Expect(func() { b.Send(packet.New(nil, topology.Position{}, 8)) }).To(Panic())
	})

	It("panics on receive from empty", func() {
		b := link.NewBuffer(0)
		Expect(func() { b.Receive() }).To(Panic())
	})
})

var _ = Describe("Handshake link timing", func() {
	It("becomes receivable exactly S*L+A*(L-1) cycles after send, and sendable A cycles after receive", func() {
		sched := scheduler.New()
		const sendCycles, ackCycles, length = int64(3), int64(2), 4
		h := link.NewHandshake(sched, sendCycles, ackCycles)
		p := packet.New(nil, topology.Position{}, length)

		Expect(h.CanSend()).To(BeTrue())
		h.Send(p)
		Expect(h.CanSend()).To(BeFalse())

		wantDelay := uint64(sendCycles*length + ackCycles*(length-1))

		sched.RunUntil(wantDelay - 1)
		Expect(h.CanReceive()).To(BeFalse())

		sched.RunUntil(wantDelay)
		Expect(h.CanReceive()).To(BeTrue())

		got := h.Receive()
		Expect(got).To(Equal(p))
		Expect(h.CanSend()).To(BeFalse())

		sched.RunUntil(wantDelay + uint64(ackCycles) - 1)
		Expect(h.CanSend()).To(BeFalse())

		sched.RunUntil(wantDelay + uint64(ackCycles))
		Expect(h.CanSend()).To(BeTrue())
	})
})

var _ = Describe("Delay-line link", func() {
	It("holds a packet for exactly latency cycles before it can be received", func() {
		sched := scheduler.New()
		d := link.NewDelayLine(sched, 5)
		p := packet.New(nil, topology.Position{}, 8)
		d.Send(p)

		sched.RunUntil(4)
		Expect(d.CanReceive()).To(BeFalse())

		sched.RunUntil(5)
		Expect(d.CanReceive()).To(BeTrue())
		Expect(d.Receive()).To(Equal(p))
	})

	It("does not decrement a packet within its arrival cycle", func() {
		sched := scheduler.New()
		d := link.NewDelayLine(sched, 1)
		p := packet.New(nil, topology.Position{}, 8)

		sched.ScheduleNow(func() { d.Send(p) })
		sched.RunUntil(0)
		Expect(d.CanReceive()).To(BeFalse())

		sched.RunUntil(1)
		Expect(d.CanReceive()).To(BeTrue())
	})
})

var _ = Describe("Aggregated link", func() {
	It("lets other channels make progress while one channel is blocked", func() {
		sched := scheduler.New()
		agg := link.NewAggregated(sched, 2, 1, 4, 1, 1, 1)
		agg.Start()

		blocked := agg.Channel(0)
		free := agg.Channel(1)

		p1 := packet.New("blocked", topology.Position{}, 1)
		p2 := packet.New("free", topology.Position{}, 1)

		Expect(blocked.CanSend()).To(BeTrue())
		blocked.Send(p1)
		Expect(free.CanSend()).To(BeTrue())
		free.Send(p2)

		sched.RunUntil(20)
		Expect(free.CanReceive()).To(BeTrue())
		Expect(free.Receive()).To(Equal(p2))
	})
})
