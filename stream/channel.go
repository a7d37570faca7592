package stream

import (
	"sync"

	"github.com/quillon/agentdeck/core"
)

// Channel delivers the events of one workflow run to its observer in
// publication order, at most once each. It is a thin wrapper around a
// buffered Go channel with drop-instead-of-block semantics so a slow or
// disconnected observer can never stall the runner. One buffer slot is
// reserved for the run's terminal event: intermediate events may be dropped
// under backpressure, but a connected observer always receives the terminal
// completed or failed event.
type Channel struct {
	mu     sync.Mutex
	ch     chan core.Event
	closed bool
}

// NewChannel creates a channel buffering up to size intermediate events plus
// the reserved terminal slot. A non-positive size falls back to a single-slot
// buffer.
func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 1
	}
	return &Channel{ch: make(chan core.Event, size+1)}
}

// Publish enqueues an event for the observer. It reports whether the event
// was accepted; publishing to a closed channel drops the event and returns
// false, as does an intermediate event past the buffer. A terminal event is
// always accepted on an open channel: intermediate publishes keep the last
// slot free for it. Publish never blocks.
func (c *Channel) Publish(ev core.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	if ev.IsTerminal() {
		select {
		case c.ch <- ev:
			return true
		default:
			// Only reachable when a terminal event was already published.
			return false
		}
	}
	// The reader only ever shrinks the buffer, so checking under the
	// publisher's lock is enough to keep the terminal slot free.
	if len(c.ch) >= cap(c.ch)-1 {
		return false
	}
	c.ch <- ev
	return true
}

// Close signals that no further events will be published. Buffered events
// remain readable; Close is idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// Events returns the receive side for the observer. The channel is closed
// after the terminal event has been published.
func (c *Channel) Events() <-chan core.Event { return c.ch }
