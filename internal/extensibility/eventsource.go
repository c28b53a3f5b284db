package extensibility

import (
	"context"

	"github.com/comalice/staterouter/internal/primitives"
)

// PathSource delivers URL paths produced outside the router, such as
// hashchange or popstate notifications.
type PathSource interface {
	Paths() <-chan string
}

// ChannelPathSource is a PathSource backed by a Go channel.
type ChannelPathSource struct {
	ch chan string
}

// NewChannelPathSource creates a new ChannelPathSource with the given channel.
// The channel should be buffered if backpressure handling is needed.
func NewChannelPathSource(ch chan string) *ChannelPathSource {
	return &ChannelPathSource{ch: ch}
}

// Paths returns the receive-only channel for paths.
func (s *ChannelPathSource) Paths() <-chan string {
	return s.ch
}

// Follow routes every path from src until ctx is done or the source closes.
// Route errors go to onErr when it is non-nil and do not stop the loop.
// The dispatcher must not be used concurrently from elsewhere.
func Follow(ctx context.Context, src PathSource, d primitives.Dispatcher, onErr func(path string, err error)) error {
	paths := src.Paths()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-paths:
			if !ok {
				return nil
			}
			if err := d.Route(ctx, path); err != nil && onErr != nil {
				onErr(path, err)
			}
		}
	}
}
