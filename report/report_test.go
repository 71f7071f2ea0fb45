package report_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hextorus/netclock"
	"github.com/sarchlab/hextorus/report"
	"github.com/sarchlab/hextorus/scheduler"
	"github.com/sarchlab/hextorus/topology"
)

type fakeCounters struct {
	values map[string]int
}

func (f *fakeCounters) Counters() map[string]int {
	return f.values
}

var _ = Describe("Recorder", func() {
	It("writes a sorted-column header once and one line per distinct clock", func() {
		sched := scheduler.New()
		system := netclock.NewSystem(sched, 1000)
		source := &fakeCounters{values: map[string]int{"b_count": 2, "a_count": 1}}

		var buf bytes.Buffer
		rec := report.NewRecorder(system, source, &buf)

		rec.Hook(0)
		rec.Hook(0)
		source.values["a_count"] = 5
		rec.Hook(1)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(Equal("# clock a_count b_count"))
		Expect(lines[1]).To(Equal("0 1 2"))
		Expect(lines[2]).To(Equal("1 5 2"))
	})

	It("renders the packet registry as a whitespace-separated trace", func() {
		sched := scheduler.New()
		system := netclock.NewSystem(sched, 1000)
		source := &fakeCounters{values: map[string]int{}}

		p := system.NewPacket("payload", topology.Position{X: 2, Y: 1}, 40, topology.Position{X: 0, Y: 0}, 0)
		p.Received = true
		p.ReceiveTime = 9

		var buf bytes.Buffer
		rec := report.NewRecorder(system, source, &buf)
		rec.WritePacketTrace()

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(HavePrefix("#"))
		Expect(lines[1]).To(Equal("0 " + p.ID + " 0 0 2 1 0 true 9 false 0 0 0 0 0"))
	})
})
