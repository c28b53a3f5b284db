// Package builder offers functional-option constructors for state trees, as
// an alternative to the fluent staterouter.Builder.
//
//	root := builder.Root(
//		builder.New("index", "/", builder.On("showDashboard", "dashboard")),
//		builder.New("dashboard", "/dashboard",
//			builder.Children(
//				builder.New("index", "/"),
//				builder.New("component", "/:component_id"),
//			)),
//	)
package builder

import (
	"context"

	"github.com/comalice/staterouter"
	"github.com/comalice/staterouter/internal/primitives"
)

// Option configures a state.
type Option func(*staterouter.State)

// New creates a state with the given route pattern.
func New(name, route string, opts ...Option) *staterouter.State {
	s := staterouter.NewState(name, route)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root creates a root state named primitives.DefaultRootName with children in
// declaration order.
func Root(children ...*staterouter.State) *staterouter.State {
	return New(primitives.DefaultRootName, "", Children(children...))
}

// Children appends child states in order.
func Children(children ...*staterouter.State) Option {
	return func(s *staterouter.State) { s.WithChildren(children...) }
}

// OnEntry adds a hook that runs when the state is entered.
func OnEntry(hook staterouter.HookFunc) Option {
	return func(s *staterouter.State) { s.AddEntry(hook) }
}

// OnExit adds a hook that runs when the state is exited.
func OnExit(hook staterouter.HookFunc) Option {
	return func(s *staterouter.State) { s.AddExit(hook) }
}

// On adds an event transition to a target state.
func On(event, target string) Option {
	return func(s *staterouter.State) { s.Transition(event, target) }
}

// Handle adds an event handler.
func Handle(event string, fn staterouter.HandlerFunc) Option {
	return func(s *staterouter.State) { s.Handle(event, fn) }
}

// Initial names the child entered by default.
func Initial(child string) Option {
	return func(s *staterouter.State) { s.WithInitial(child) }
}

// RedirectsTo redirects entry of the state to target.
func RedirectsTo(target string) Option {
	return func(s *staterouter.State) { s.WithRedirect(target) }
}

// TransitionTo returns a handler that transitions to target, passing the
// event's contexts through.
func TransitionTo(target string) staterouter.HandlerFunc {
	return func(ctx context.Context, t staterouter.Transitioner, contexts []any) error {
		t.TransitionTo(target, contexts...)
		return nil
	}
}

// When returns a handler that transitions to ifTrue when cond reports true
// for the event's contexts, and to ifFalse otherwise.
func When(cond func(contexts []any) bool, ifTrue, ifFalse string) staterouter.HandlerFunc {
	return func(ctx context.Context, t staterouter.Transitioner, contexts []any) error {
		if cond(contexts) {
			t.TransitionTo(ifTrue, contexts...)
		} else {
			t.TransitionTo(ifFalse, contexts...)
		}
		return nil
	}
}
