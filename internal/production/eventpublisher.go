package production

import (
	"context"
	"sync"

	"github.com/comalice/staterouter/internal/core"
)

// PublishedTransition bundles a committed transition or a failed operation
// for publishing. Exactly one of Record and Err is meaningful.
type PublishedTransition struct {
	Record core.TransitionRecord
	Op     core.Op
	Err    error
}

// ChannelPublisher is a core.Observer that forwards transitions to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	mu      sync.Mutex
	ch      chan<- PublishedTransition
	closed  bool
	dropped uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedTransition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) OnTransition(ctx context.Context, rec core.TransitionRecord) {
	p.publish(ctx, PublishedTransition{Record: rec, Op: rec.Op})
}

func (p *ChannelPublisher) OnError(ctx context.Context, op core.Op, err error) {
	p.publish(ctx, PublishedTransition{Op: op, Err: err})
}

func (p *ChannelPublisher) publish(ctx context.Context, msg PublishedTransition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.ch <- msg:
	case <-ctx.Done():
	default:
		p.dropped++ // non-blocking drop
	}
}

// Dropped returns how many messages were dropped on backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close closes the output channel. Later publishes are ignored.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
