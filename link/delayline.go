package link

import (
	"github.com/sarchlab/hextorus/packet"
	"github.com/sarchlab/hextorus/scheduler"
)

type delayEntry struct {
	pkt       *packet.Packet
	remaining int64
}

// DelayLine is an unbounded FIFO link where each packet sits for a fixed
// number of cycles before it can be received. It self-arms a per-cycle
// housekeeping task at construction and runs for the life of the
// scheduler, the way a router or generator re-arms itself every period.
type DelayLine struct {
	sched   *scheduler.Scheduler
	latency int64

	queue       []*delayEntry
	newlyArrived []*delayEntry
}

// NewDelayLine creates a delay-line link with the given per-packet
// latency (in cycles), driven by sched.
func NewDelayLine(sched *scheduler.Scheduler, latency int64) *DelayLine {
	if latency < 0 {
		panic("link: delay-line latency must be non-negative")
	}
	d := &DelayLine{sched: sched, latency: latency}
	d.sched.ScheduleLater(d.step, 0)
	return d
}

// step fires once every cycle. It defers the actual commit to the
// end-of-instant (INACTIVE) phase so that every Send issued during this
// cycle's READY drain is captured before existing entries are
// decremented — synchronous Send appends to newlyArrived directly, so by
// the time commit runs, this cycle's arrivals are already recorded and
// are merged in fresh, never having been decremented.
func (d *DelayLine) step() {
	d.sched.ScheduleLater(d.commit, 0)
	d.sched.ScheduleLater(d.step, 1)
}

func (d *DelayLine) commit() {
	for _, e := range d.queue {
		e.remaining--
	}
	d.queue = append(d.queue, d.newlyArrived...)
	d.newlyArrived = nil
}

func (d *DelayLine) CanSend() bool { return true }

func (d *DelayLine) Send(p *packet.Packet) {
	d.newlyArrived = append(d.newlyArrived, &delayEntry{pkt: p, remaining: d.latency})
}

func (d *DelayLine) CanReceive() bool {
	return len(d.queue) > 0 && d.queue[0].remaining <= 0
}

func (d *DelayLine) Peek() *packet.Packet {
	if !d.CanReceive() {
		panic("link: peek on a delay-line link with no ready entry")
	}
	return d.queue[0].pkt
}

func (d *DelayLine) Receive() *packet.Packet {
	if !d.CanReceive() {
		panic("link: receive on a delay-line link with no ready entry")
	}
	p := d.queue[0].pkt
	d.queue = d.queue[1:]
	return p
}
