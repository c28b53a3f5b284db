// RouterConfig represents the top-level configuration of a router: its ID,
// the path routed on Start, and the root of the state tree.
// Validation ensures a well-formed tree, resolvable transition targets and
// redirects, and the absence of redirect cycles.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRootName is used when the root state is created by a builder.
const DefaultRootName = "root"

// RouterConfig defines the complete router configuration.
type RouterConfig struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	Version     string       `json:"version,omitempty" yaml:"version,omitempty"`
	InitialPath string       `json:"initialPath,omitempty" yaml:"initialPath,omitempty"`
	Root        *StateConfig `json:"root" yaml:"root"`
}

// Validate validates the entire router configuration:
//   - a root state is present and the tree validates recursively
//   - the root itself declares no route or redirect
//   - every transition target resolves from its declaring state
//   - every redirect target resolves and no redirect chain loops
func (c *RouterConfig) Validate() error {
	if c.Root == nil {
		return errors.New("root state is required")
	}
	if err := c.Root.Validate(); err != nil {
		return fmt.Errorf("state tree validation failed: %w", err)
	}
	if c.Root.Route != "" && c.Root.Route != "/" {
		return fmt.Errorf("root state %s cannot declare route %q", c.Root.Name, c.Root.Route)
	}
	if c.Root.RedirectsTo != "" {
		return fmt.Errorf("root state %s cannot redirect", c.Root.Name)
	}

	redirects := map[string]string{}
	err := c.Root.Walk("", func(path string, s *StateConfig) error {
		for event, trans := range s.On {
			if trans.Target == "" {
				continue
			}
			if _, err := c.ResolveTarget(path, trans.Target); err != nil {
				return fmt.Errorf("invalid transition target %q (state %q, event %q): %w", trans.Target, path, event, err)
			}
		}
		if s.RedirectsTo != "" {
			target, err := c.ResolveTarget(path, s.RedirectsTo)
			if err != nil {
				return fmt.Errorf("invalid redirect %q (state %q): %w", s.RedirectsTo, path, err)
			}
			redirects[path] = target
		}
		return nil
	})
	if err != nil {
		return err
	}

	for start := range redirects {
		seen := map[string]bool{start: true}
		for next, ok := redirects[start]; ok; next, ok = redirects[next] {
			if seen[next] {
				return fmt.Errorf("redirect cycle starting at %q", start)
			}
			seen[next] = true
		}
	}

	return nil
}

// RootName returns the name of the root state.
func (c *RouterConfig) RootName() string {
	if c.Root == nil {
		return ""
	}
	return c.Root.Name
}

// FindState resolves a state by full path (e.g. "root.dashboard.index").
func (c *RouterConfig) FindState(path string) (*StateConfig, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	if c.Root == nil {
		return nil, errors.New("config has no root")
	}

	segments := strings.Split(path, ".")
	if segments[0] != c.Root.Name {
		return nil, fmt.Errorf("state %q not found", segments[0])
	}

	current := c.Root
	for i := 1; i < len(segments); i++ {
		child, ok := current.Child(segments[i])
		if !ok {
			prefix := strings.Join(segments[:i], ".")
			return nil, fmt.Errorf("child %q not found in %q", segments[i], prefix)
		}
		current = child
	}
	return current, nil
}

// ResolveTarget resolves a transition or redirect target relative to the
// state at from: "<scope>.<target>" is tried for from and each ancestor,
// innermost first. Targets starting with the root name are absolute.
func (c *RouterConfig) ResolveTarget(from, target string) (string, error) {
	if target == "" {
		return "", errors.New("empty target")
	}
	root := c.RootName()
	if target == root || strings.HasPrefix(target, root+".") {
		if _, err := c.FindState(target); err != nil {
			return "", err
		}
		return target, nil
	}

	for scope := from; scope != ""; scope = ParentPath(scope) {
		candidate := scope + "." + target
		if _, err := c.FindState(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("target %q not reachable from %q", target, from)
}

// ParentPath returns the parent of a dot-separated path, or "" for the root.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return ""
	}
	return path[:idx]
}

// Ancestors returns all ancestor paths of path, outermost first, including path.
func Ancestors(path string) []string {
	segments := strings.Split(path, ".")
	ancestors := make([]string, len(segments))

	current := ""
	for i, seg := range segments {
		if current != "" {
			current += "."
		}
		current += seg
		ancestors[i] = current
	}
	return ancestors
}
