// StateConfig represents one node of the routing tree: an optional URL pattern,
// an event table, enter/exit hooks, an optional redirect, and ordered children.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// StateConfig defines a state configuration, supporting hierarchical nesting.
// Children are ordered; route resolution tries them in declaration order.
type StateConfig struct {
	Name string `json:"name" yaml:"name"`
	// Route is the URL pattern fragment relative to the parent. Empty means the
	// state is reachable by events only; "/" matches zero segments.
	Route       string                      `json:"route,omitempty" yaml:"route,omitempty"`
	Initial     string                      `json:"initial,omitempty" yaml:"initial,omitempty"`
	RedirectsTo string                      `json:"redirectsTo,omitempty" yaml:"redirectsTo,omitempty"`
	On          map[string]TransitionConfig `json:"on,omitempty" yaml:"on,omitempty"`
	Entry       []ActionRef                 `json:"-" yaml:"-"`
	Exit        []ActionRef                 `json:"-" yaml:"-"`
	Children    []*StateConfig              `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewStateConfig creates a new StateConfig with a name and route.
func NewStateConfig(name, route string) *StateConfig {
	return &StateConfig{
		Name:  name,
		Route: route,
	}
}

// Routable reports whether the state takes part in URL resolution.
func (s *StateConfig) Routable() bool {
	return s.Route != ""
}

// WithInitial sets the default child entered when this state is the target.
func (s *StateConfig) WithInitial(initial string) *StateConfig {
	s.Initial = initial
	return s
}

// WithRedirect sets the redirect target.
func (s *StateConfig) WithRedirect(target string) *StateConfig {
	s.RedirectsTo = target
	return s
}

// WithOn sets the event table.
func (s *StateConfig) WithOn(on map[string]TransitionConfig) *StateConfig {
	s.On = make(map[string]TransitionConfig, len(on))
	for k, v := range on {
		s.On[k] = v
	}
	return s
}

// AddTransition sets the entry for an event, replacing any previous one.
func (s *StateConfig) AddTransition(event string, trans TransitionConfig) *StateConfig {
	if s.On == nil {
		s.On = make(map[string]TransitionConfig)
	}
	s.On[event] = trans
	return s
}

// Transition maps event to a literal target.
func (s *StateConfig) Transition(event, target string) *StateConfig {
	return s.AddTransition(event, TransitionConfig{Target: target})
}

// Handle maps event to a handler.
func (s *StateConfig) Handle(event string, handler HandlerRef) *StateConfig {
	return s.AddTransition(event, TransitionConfig{Handler: handler})
}

// AddEntry adds an entry hook.
func (s *StateConfig) AddEntry(action ActionRef) *StateConfig {
	s.Entry = append(s.Entry, action)
	return s
}

// AddExit adds an exit hook.
func (s *StateConfig) AddExit(action ActionRef) *StateConfig {
	s.Exit = append(s.Exit, action)
	return s
}

// WithChildren sets child states.
func (s *StateConfig) WithChildren(children ...*StateConfig) *StateConfig {
	s.Children = children
	return s
}

// AddChild adds a child state.
func (s *StateConfig) AddChild(child *StateConfig) *StateConfig {
	s.Children = append(s.Children, child)
	return s
}

// State creates and adds a child state.
// Returns the child for fluent chaining: parent.State("child", "/child").Transition("evt", "target").
func (s *StateConfig) State(name, route string) *StateConfig {
	child := NewStateConfig(name, route)
	s.AddChild(child)
	return child
}

// Child returns the direct child with the given name.
func (s *StateConfig) Child(name string) (*StateConfig, bool) {
	for _, c := range s.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Walk visits s and its descendants depth-first in declaration order.
// path is the full dot-separated path of each visited state.
func (s *StateConfig) Walk(prefix string, fn func(path string, state *StateConfig) error) error {
	path := s.Name
	if prefix != "" {
		path = prefix + "." + s.Name
	}
	if err := fn(path, s); err != nil {
		return err
	}
	for _, child := range s.Children {
		if err := child.Walk(path, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate performs recursive structural validation of the StateConfig tree.
// Cross-tree references (targets, redirects) are checked by RouterConfig.Validate.
func (s *StateConfig) Validate() error {
	if s.Name == "" {
		return errors.New("state name is required")
	}
	if !validName(s.Name) {
		return fmt.Errorf("invalid state name %q", s.Name)
	}

	if _, err := ParsePattern(s.Route); err != nil {
		return fmt.Errorf("state %s: %w", s.Name, err)
	}

	if s.Initial != "" {
		if _, ok := s.Child(s.Initial); !ok {
			return fmt.Errorf("initial child %q not found in children of %s", s.Initial, s.Name)
		}
	}

	for event, trans := range s.On {
		if strings.TrimSpace(event) == "" {
			return fmt.Errorf("empty event name in On map for state %s", s.Name)
		}
		if err := trans.Validate(); err != nil {
			return fmt.Errorf("state %s, event %q: %w", s.Name, event, err)
		}
	}

	if s.RedirectsTo != "" {
		if err := validateTargetPath(s.RedirectsTo); err != nil {
			return fmt.Errorf("state %s redirect: %w", s.Name, err)
		}
	}

	seen := make(map[string]bool, len(s.Children))
	for i, child := range s.Children {
		if child == nil {
			return fmt.Errorf("child %d of %s is nil", i, s.Name)
		}
		if seen[child.Name] {
			return fmt.Errorf("duplicate child %q in %s", child.Name, s.Name)
		}
		seen[child.Name] = true
		if err := child.Validate(); err != nil {
			return fmt.Errorf("child %d (%s) of %s failed validation: %w", i, child.Name, s.Name, err)
		}
	}

	return nil
}
