// TransitionConfig defines the entry an event maps to in a state's event table:
// either a literal destination (Target) or a Handler that picks one.
//
// Targets are dot-separated state paths resolved relative to the current state
// (e.g. "dashboard", "dashboard.index") or absolute from the root
// ("root.dashboard"). Handlers and hooks are pluggable references: a function
// value or a string ID resolved by the router's ActionRunner.
package primitives

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ActionRef references an enter/exit hook: a HookFunc (or a func with the same
// signature) or a string ID.
type ActionRef any

// HandlerRef references an event handler: a HandlerFunc (or a func with the
// same signature) or a string ID.
type HandlerRef any

// Dispatcher is the command surface hooks may call back into. Calls made while
// a transition is in progress are queued until it commits.
type Dispatcher interface {
	Route(ctx context.Context, path string) error
	Send(ctx context.Context, event string, contexts ...any) error
	TransitionTo(ctx context.Context, target string, contexts ...any) error
}

// HookContext is passed to enter and exit hooks.
type HookContext struct {
	Router Dispatcher
	// State is the full path of the state being entered or exited.
	State string
	// Params are the dynamic segment values owned by State.
	Params Context
	// Event is the event being dispatched, empty for Route/TransitionTo.
	Event string
}

// HookFunc runs when a state is entered or exited.
type HookFunc func(ctx context.Context, hc HookContext) error

// Transitioner records the destination an event handler chooses.
type Transitioner interface {
	CurrentPath() string
	TransitionTo(target string, contexts ...any)
}

// HandlerFunc decides which transition an event triggers. It must call
// t.TransitionTo exactly once. contexts are the values the event was sent with.
type HandlerFunc func(ctx context.Context, t Transitioner, contexts []any) error

// TransitionConfig is one entry of a state's event table.
type TransitionConfig struct {
	Target  string     `json:"target,omitempty" yaml:"target,omitempty"`
	Handler HandlerRef `json:"-" yaml:"-"`
}

// Validate checks TransitionConfig fields and target path syntax.
func (t *TransitionConfig) Validate() error {
	if t.Target == "" && t.Handler == nil {
		return errors.New("target or handler is required")
	}
	if t.Target == "" {
		return nil
	}
	return validateTargetPath(t.Target)
}

// validateTargetPath checks dot-separated non-empty name segments.
func validateTargetPath(target string) error {
	segments := strings.Split(target, ".")
	for i, seg := range segments {
		if seg == "" {
			return fmt.Errorf("invalid target path %q: empty segment at index %d", target, i)
		}
		if !validName(seg) {
			return fmt.Errorf("invalid target path %q: invalid segment %q", target, seg)
		}
	}
	return nil
}
