package torus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hextorus/chip"
	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
	"github.com/sarchlab/hextorus/torus"
)

var _ = Describe("Torus assembly", func() {
	It("covers every chip position of the 12x12 mesh exactly once for a 1x1 tile", func() {
		sched := scheduler.New()
		system := netclock.NewSystem(sched, 1000)

		tr := torus.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			Build(1, 1)

		seen := make(map[topology.Position]bool)
		count := 0
		for _, bd := range tr.Boards() {
			for _, c := range bd.Chips() {
				p := c.Position()
				Expect(seen[p]).To(BeFalse(), "duplicate chip position %v", p)
				seen[p] = true
				count++
			}
		}

		Expect(count).To(Equal(144))
		for x := 0; x < 12; x++ {
			for y := 0; y < 12; y++ {
				Expect(seen[topology.Position{X: x, Y: y}]).To(BeTrue())
			}
		}
	})

	It("wires every chip's N/NE/W neighbor reciprocally", func() {
		sched := scheduler.New()
		system := netclock.NewSystem(sched, 1000)

		tr := torus.NewBuilder().
			WithScheduler(sched).
			WithSystem(system).
			Build(1, 1)

		chipsByPosition := make(map[topology.Position]*chip.Chip)
		for _, bd := range tr.Boards() {
			for _, c := range bd.Chips() {
				chipsByPosition[c.Position()] = c
			}
		}

		meshWidth, meshHeight := 12, 12
		for pos, c := range chipsByPosition {
			for _, d := range []topology.Direction{topology.N, topology.NE, topology.W} {
				neighborPos := pos.Add(d).Mod(meshWidth, meshHeight)
				neighbor, ok := chipsByPosition[neighborPos]
				Expect(ok).To(BeTrue(), "missing neighbor of %v in direction %v", pos, d)

				Expect(c.OutLink(d)).To(BeIdenticalTo(neighbor.InLink(d.Opposite())))
				Expect(c.InLink(d)).To(BeIdenticalTo(neighbor.OutLink(d.Opposite())))
			}
		}
	})
})
