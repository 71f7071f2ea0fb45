package link

import (
	"github.com/sarchlab/hextorus/packet"
	"github.com/sarchlab/hextorus/scheduler"
)

type channelState struct {
	in     *Handshake
	out    *Handshake
	delay  *DelayLine
	credit int
}

// Aggregated models an FPGA-aggregated multi-channel inter-board link
// (the source's "SATA" link): num_channels independent lanes, each an
// input handshake feeding a delay-line feeding an output handshake with
// its own credit counter, multiplexed by a periodic round-robin handler
// that moves at most one packet out and one packet in per call.
type Aggregated struct {
	sched        *scheduler.Scheduler
	acceptPeriod int64
	channels     []*channelState
	proxies      []Link
	lastOutput   int
	lastInput    int
}

// NewAggregated creates an aggregated link with the given channel count
// and per-channel timing/buffering parameters.
func NewAggregated(sched *scheduler.Scheduler, numChannels int, acceptPeriod, bufferLength, latency, sendCycles, ackCycles int64) *Aggregated {
	if numChannels < 1 {
		panic("link: aggregated link needs at least one channel")
	}
	a := &Aggregated{sched: sched, acceptPeriod: acceptPeriod}
	for i := 0; i < numChannels; i++ {
		a.channels = append(a.channels, &channelState{
			in:     NewHandshake(sched, sendCycles, ackCycles),
			out:    NewHandshake(sched, sendCycles, ackCycles),
			delay:  NewDelayLine(sched, latency),
			credit: int(bufferLength),
		})
		a.proxies = append(a.proxies, &aggregatedChannel{ch: a.channels[i]})
	}
	a.lastOutput = numChannels - 1
	a.lastInput = numChannels - 1
	return a
}

// Start arms the first handler invocation.
func (a *Aggregated) Start() {
	a.sched.ScheduleLater(a.handle, a.acceptPeriod)
}

// handle performs at most one output hand-off and one input hand-off,
// each via round-robin starting just after the side's last-serviced
// channel, then reschedules itself.
func (a *Aggregated) handle() {
	n := len(a.channels)

	for i := 1; i <= n; i++ {
		idx := (a.lastOutput + i) % n
		ch := a.channels[idx]
		if ch.delay.CanReceive() && ch.out.CanSend() {
			p := ch.delay.Receive()
			ch.out.Send(p)
			ch.credit++
			a.lastOutput = idx
			break
		}
	}

	for i := 1; i <= n; i++ {
		idx := (a.lastInput + i) % n
		ch := a.channels[idx]
		if ch.in.CanReceive() && ch.credit >= 0 {
			p := ch.in.Receive()
			ch.delay.Send(p)
			ch.credit--
			a.lastInput = idx
			break
		}
	}

	a.sched.ScheduleLater(a.handle, a.acceptPeriod)
}

// NumChannels returns the number of channels in the aggregated link.
func (a *Aggregated) NumChannels() int {
	return len(a.channels)
}

// Channel returns the Link proxy for channel i: its Send/CanSend forward
// to the channel's input handshake, its Receive/CanReceive/Peek forward
// to the channel's output handshake. One side's producer and the other
// side's consumer share this single object, the way every other link
// variant has exactly two logical endpoints.
func (a *Aggregated) Channel(i int) Link {
	if i < 0 || i >= len(a.channels) {
		panic("link: aggregated channel index out of range")
	}
	return a.proxies[i]
}

type aggregatedChannel struct {
	ch *channelState
}

func (c *aggregatedChannel) CanSend() bool             { return c.ch.in.CanSend() }
func (c *aggregatedChannel) Send(p *packet.Packet)      { c.ch.in.Send(p) }
func (c *aggregatedChannel) CanReceive() bool           { return c.ch.out.CanReceive() }
func (c *aggregatedChannel) Peek() *packet.Packet       { return c.ch.out.Peek() }
func (c *aggregatedChannel) Receive() *packet.Packet    { return c.ch.out.Receive() }
