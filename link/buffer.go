package link

import "github.com/sarchlab/hextorus/packet"

// Buffer is a FIFO link with optional bounded capacity. A send commits
// immediately — with zero scheduler latency — so a packet sent at
// instant t can be received at instant t, once the sender's task returns.
type Buffer struct {
	capacity int // 0 means unbounded
	queue    []*packet.Packet
}

// NewBuffer creates a FIFO buffer link. capacity<=0 means unbounded.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{capacity: capacity}
}

func (b *Buffer) CanSend() bool {
	return b.capacity <= 0 || len(b.queue) < b.capacity
}

func (b *Buffer) Send(p *packet.Packet) {
	if !b.CanSend() {
		panic("link: send on a full buffer link")
	}
	b.queue = append(b.queue, p)
}

func (b *Buffer) CanReceive() bool {
	return len(b.queue) > 0
}

func (b *Buffer) Peek() *packet.Packet {
	if !b.CanReceive() {
		panic("link: peek on an empty buffer link")
	}
	return b.queue[0]
}

func (b *Buffer) Receive() *packet.Packet {
	if !b.CanReceive() {
		panic("link: receive on an empty buffer link")
	}
	p := b.queue[0]
	b.queue = b.queue[1:]
	return p
}

// Len reports the number of packets currently queued.
func (b *Buffer) Len() int {
	return len(b.queue)
}
