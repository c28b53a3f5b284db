package staterouter

import (
	"fmt"
	"strings"

	"github.com/comalice/staterouter/internal/primitives"
)

// Builder provides a fluent API for constructing routers using dot-separated
// state paths instead of nesting StateConfig values by hand.
type Builder struct {
	id          string
	version     string
	initialPath string
	root        *primitives.StateConfig
	states      map[string]*primitives.StateConfig
	errs        []error
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b     *Builder
	state *primitives.StateConfig
	path  string
}

// NewBuilder creates a builder whose root state has the given name.
func NewBuilder(rootName string) *Builder {
	if rootName == "" {
		rootName = primitives.DefaultRootName
	}
	root := primitives.NewStateConfig(rootName, "")
	return &Builder{
		root:   root,
		states: map[string]*primitives.StateConfig{"": root},
	}
}

// ID sets the router ID.
func (b *Builder) ID(id string) *Builder {
	b.id = id
	return b
}

// Version sets the config version recorded in snapshots.
func (b *Builder) Version(version string) *Builder {
	b.version = version
	return b
}

// InitialPath sets the path routed by Start.
func (b *Builder) InitialPath(path string) *Builder {
	b.initialPath = path
	return b
}

// Root returns a StateBuilder for the root state, for events and hooks that
// apply everywhere.
func (b *Builder) Root() *StateBuilder {
	return &StateBuilder{b: b, state: b.root}
}

// State creates or retrieves a state by its path below the root, e.g.
// "dashboard.component". Missing parents are created without a route;
// declare them with State(parent).Route(...) to make them routable.
// Children are ordered by first mention.
func (b *Builder) State(path string) *StateBuilder {
	if s, ok := b.states[path]; ok {
		return &StateBuilder{b: b, state: s, path: path}
	}
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
		b.errs = append(b.errs, fmt.Errorf("invalid state path %q", path))
		return &StateBuilder{b: b, state: primitives.NewStateConfig(path, ""), path: path}
	}

	parentPath, name := splitPath(path)
	parent := b.State(parentPath).state
	s := parent.State(name, "")
	b.states[path] = s
	return &StateBuilder{b: b, state: s, path: path}
}

// Config validates and returns the assembled configuration.
func (b *Builder) Config() (Config, error) {
	if len(b.errs) > 0 {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, b.errs[0])
	}
	cfg := Config{ID: b.id, Version: b.version, InitialPath: b.initialPath, Root: b.root}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Build validates the configuration and constructs the Router.
func (b *Builder) Build(opts ...Option) (*Router, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Path returns the full router path of a builder path, e.g. "root.dashboard"
// for "dashboard".
func (b *Builder) Path(path string) string {
	if path == "" {
		return b.root.Name
	}
	return b.root.Name + "." + path
}

// splitPath splits a hierarchical path into parent and name components.
// For example, "parent.child" returns ("parent", "child").
// For "child", returns ("", "child").
func splitPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// StateBuilder fluent methods

// Route sets the URL pattern fragment matched relative to the parent.
func (sb *StateBuilder) Route(pattern string) *StateBuilder {
	sb.state.Route = pattern
	return sb
}

// Initial names the child entered when this state is the end of a URL.
func (sb *StateBuilder) Initial(child string) *StateBuilder {
	sb.state.WithInitial(child)
	return sb
}

// RedirectsTo makes entering this state continue to target.
func (sb *StateBuilder) RedirectsTo(target string) *StateBuilder {
	sb.state.WithRedirect(target)
	return sb
}

// On adds a transition to target when the given event is sent. Targets
// resolve relative to this state.
func (sb *StateBuilder) On(event, target string) *StateBuilder {
	sb.state.Transition(event, target)
	return sb
}

// Handle registers a handler that picks the destination of event.
func (sb *StateBuilder) Handle(event string, handler any) *StateBuilder {
	sb.state.Handle(event, handler)
	return sb
}

// Entry appends an enter hook.
func (sb *StateBuilder) Entry(action any) *StateBuilder {
	sb.state.AddEntry(action)
	return sb
}

// Exit appends an exit hook.
func (sb *StateBuilder) Exit(action any) *StateBuilder {
	sb.state.AddExit(action)
	return sb
}

// State continues with a child of this state.
func (sb *StateBuilder) State(name string) *StateBuilder {
	if sb.path == "" {
		return sb.b.State(name)
	}
	return sb.b.State(sb.path + "." + name)
}

// Config exposes the underlying state config.
func (sb *StateBuilder) Config() *State {
	return sb.state
}
