package extensibility

import (
	"strings"
	"sync"
)

// DefaultHashPrefix is the fragment prefix used by NewHashLocation("").
const DefaultHashPrefix = "#"

// HashLocation keeps the router path in a URL fragment, e.g. "#!#/dashboard".
type HashLocation struct {
	mu     sync.Mutex
	prefix string
	path   string
}

// NewHashLocation creates a HashLocation with the given fragment prefix.
func NewHashLocation(prefix string) *HashLocation {
	if prefix == "" {
		prefix = DefaultHashPrefix
	}
	return &HashLocation{prefix: prefix}
}

// SetURL records path as the current fragment.
func (l *HashLocation) SetURL(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
}

// FormatURL prefixes path with the fragment prefix.
func (l *HashLocation) FormatURL(path string) string {
	return l.prefix + path
}

// URL returns the current fragment, prefix included.
func (l *HashLocation) URL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prefix + l.path
}

// Path extracts the router path from a fragment produced by FormatURL.
func (l *HashLocation) Path(fragment string) (string, bool) {
	path, ok := strings.CutPrefix(fragment, l.prefix)
	if !ok {
		return "", false
	}
	if path == "" {
		path = "/"
	}
	return path, true
}

// HistoryLocation models a history stack under a root URL. Back pops the
// stack and publishes the previous path on Paths, the way a browser fires
// popstate; the host feeds those paths to Router.Route.
type HistoryLocation struct {
	mu      sync.Mutex
	root    string
	entries []string
	paths   chan string
	closed  bool
}

// NewHistoryLocation creates a HistoryLocation serving URLs under root.
func NewHistoryLocation(root string) *HistoryLocation {
	return &HistoryLocation{
		root:  strings.TrimSuffix(root, "/"),
		paths: make(chan string, 16),
	}
}

// SetURL pushes path unless it is already the top entry.
func (l *HistoryLocation) SetURL(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n := len(l.entries); n > 0 && l.entries[n-1] == path {
		return
	}
	l.entries = append(l.entries, path)
}

// FormatURL joins the root URL and path.
func (l *HistoryLocation) FormatURL(path string) string {
	if path == "/" && l.root != "" {
		return l.root
	}
	return l.root + path
}

// Entries returns a copy of the history stack, oldest first.
func (l *HistoryLocation) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// Back drops the current entry and publishes the previous one.
// It reports false when there is nothing to go back to.
func (l *HistoryLocation) Back() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || len(l.entries) < 2 {
		return false
	}
	l.entries = l.entries[:len(l.entries)-1]
	select {
	case l.paths <- l.entries[len(l.entries)-1]:
	default:
		// drop if the host is not keeping up
	}
	return true
}

// Paths returns the receive-only channel of popped paths.
func (l *HistoryLocation) Paths() <-chan string {
	return l.paths
}

// Close closes the Paths channel.
func (l *HistoryLocation) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.paths)
	}
}

// MemoryLocation records every SetURL and formats paths unchanged.
type MemoryLocation struct {
	mu   sync.Mutex
	urls []string
}

// NewMemoryLocation creates an empty MemoryLocation.
func NewMemoryLocation() *MemoryLocation {
	return &MemoryLocation{}
}

func (l *MemoryLocation) SetURL(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, path)
}

func (l *MemoryLocation) FormatURL(path string) string { return path }

// URLs returns every path written so far.
func (l *MemoryLocation) URLs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.urls...)
}

// Last returns the most recent path written, or "".
func (l *MemoryLocation) Last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.urls) == 0 {
		return ""
	}
	return l.urls[len(l.urls)-1]
}
