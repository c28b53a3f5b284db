// Package primitives provides versioning utilities for RouterConfig.
package primitives

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sort"
)

// ComputeVersion computes a deterministic version for a RouterConfig.
// Priority: user-provided config.Version, else the first 8 bytes of a SHA256
// over the tree's structure (names, routes, initials, redirects, event targets).
// Hooks and handler functions do not contribute; handler string IDs do.
func ComputeVersion(config *RouterConfig) string {
	if config.Version != "" {
		return config.Version
	}

	h := sha256.New()
	fmt.Fprintf(h, "initial=%s\n", config.InitialPath)
	if config.Root != nil {
		_ = config.Root.Walk("", func(path string, s *StateConfig) error {
			writeState(h, path, s)
			return nil
		})
	}
	sum := h.Sum(nil)
	return fmt.Sprintf("%x", sum[:8])
}

func writeState(w io.Writer, path string, s *StateConfig) {
	fmt.Fprintf(w, "state=%s route=%s initial=%s redirect=%s\n", path, s.Route, s.Initial, s.RedirectsTo)

	events := make([]string, 0, len(s.On))
	for event := range s.On {
		events = append(events, event)
	}
	sort.Strings(events)
	for _, event := range events {
		trans := s.On[event]
		handler := ""
		if id, ok := trans.Handler.(string); ok {
			handler = id
		} else if trans.Handler != nil {
			handler = "func"
		}
		fmt.Fprintf(w, "  on=%s target=%s handler=%s\n", event, trans.Target, handler)
	}
}
