// Package testutil provides recording doubles for exercising routers in
// tests: a Location that keeps every URL write and a HookCounter that counts
// enter and exit hooks per state.
package testutil

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/comalice/staterouter"
)

// Location records SetURL calls and formats URLs with a fixed prefix.
type Location struct {
	Prefix string

	mu   sync.Mutex
	urls []string
}

// NewLocation creates a Location with the given prefix, e.g. "#!#".
func NewLocation(prefix string) *Location {
	return &Location{Prefix: prefix}
}

func (l *Location) SetURL(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, path)
}

func (l *Location) FormatURL(path string) string {
	return l.Prefix + path
}

// Sets returns how many times SetURL was called.
func (l *Location) Sets() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.urls)
}

// URL returns the last path written, or "".
func (l *Location) URL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.urls) == 0 {
		return ""
	}
	return l.urls[len(l.urls)-1]
}

// History returns every path written, oldest first.
func (l *Location) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.urls...)
}

// HookCounter counts enter and exit hook runs per state path and keeps the
// order they ran in. Counting does not take the log lock.
type HookCounter struct {
	total  atomic.Int64
	counts sync.Map // string -> *atomic.Int64

	mu  sync.Mutex
	log []string
}

// NewHookCounter creates an empty HookCounter.
func NewHookCounter() *HookCounter {
	return &HookCounter{}
}

// Enter returns a hook that records "enter:<state>".
func (c *HookCounter) Enter() staterouter.HookFunc { return c.hook("enter") }

// Exit returns a hook that records "exit:<state>".
func (c *HookCounter) Exit() staterouter.HookFunc { return c.hook("exit") }

func (c *HookCounter) hook(kind string) staterouter.HookFunc {
	return func(ctx context.Context, hc staterouter.HookContext) error {
		key := kind + ":" + hc.State
		c.total.Inc()
		n, _ := c.counts.LoadOrStore(key, atomic.NewInt64(0))
		n.(*atomic.Int64).Inc()

		c.mu.Lock()
		defer c.mu.Unlock()
		c.log = append(c.log, key)
		return nil
	}
}

// Instrument attaches Enter and Exit hooks to every state in the tree.
func (c *HookCounter) Instrument(root *staterouter.State) {
	_ = root.Walk("", func(path string, s *staterouter.State) error {
		s.AddEntry(c.Enter())
		s.AddExit(c.Exit())
		return nil
	})
}

// Count returns how many times key ("enter:root.a") ran.
func (c *HookCounter) Count(key string) int64 {
	n, ok := c.counts.Load(key)
	if !ok {
		return 0
	}
	return n.(*atomic.Int64).Load()
}

// Total returns the number of hook runs across all states.
func (c *HookCounter) Total() int64 { return c.total.Load() }

// Log returns the hook runs in order and clears it.
func (c *HookCounter) Log() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.log
	c.log = nil
	return out
}
