package staterouter

import (
	"github.com/comalice/staterouter/internal/core"
	"github.com/comalice/staterouter/internal/primitives"
)

type (
	Router           = core.Router
	Option           = core.Option
	Snapshot         = core.Snapshot
	Location         = core.Location
	ActionRunner     = core.ActionRunner
	ModelResolver    = core.ModelResolver
	Observer         = core.Observer
	Persister        = core.Persister
	Registry         = core.Registry
	Visualizer       = core.Visualizer
	TransitionRecord = core.TransitionRecord
	Op               = core.Op

	Config           = primitives.RouterConfig
	State            = primitives.StateConfig
	TransitionConfig = primitives.TransitionConfig
	Context          = primitives.Context
	Param            = primitives.Param
	HookContext      = primitives.HookContext
	HookFunc         = primitives.HookFunc
	HandlerFunc      = primitives.HandlerFunc
	Transitioner     = primitives.Transitioner
	Dispatcher       = primitives.Dispatcher
	ParamSerializer  = primitives.ParamSerializer
)

const (
	OpRoute        = core.OpRoute
	OpSend         = core.OpSend
	OpTransitionTo = core.OpTransitionTo
	OpURLForEvent  = core.OpURLForEvent

	DefaultMaxRedirects = core.DefaultMaxRedirects
)

var (
	ErrNotStarted         = core.ErrNotStarted
	ErrNoMatchingRoute    = core.ErrNoMatchingRoute
	ErrUnhandledEvent     = core.ErrUnhandledEvent
	ErrUnknownState       = core.ErrUnknownState
	ErrMissingContext     = core.ErrMissingContext
	ErrNoTransition       = core.ErrNoTransition
	ErrAmbiguousHandler   = core.ErrAmbiguousHandler
	ErrRedirectLoop       = core.ErrRedirectLoop
	ErrHookFailed         = core.ErrHookFailed
	ErrDeferredOverflow   = core.ErrDeferredOverflow
	ErrBusy               = core.ErrBusy
	ErrRouterMismatch     = core.ErrRouterMismatch
	ErrInvalidConfig      = core.ErrInvalidConfig
	ErrHandlerUnavailable = core.ErrHandlerUnavailable
)

var (
	WithID            = core.WithID
	WithLocation      = core.WithLocation
	WithActionRunner  = core.WithActionRunner
	WithModelResolver = core.WithModelResolver
	WithObserver      = core.WithObserver
	WithPersister     = core.WithPersister
	WithRegistry      = core.WithRegistry
	WithVisualizer    = core.WithVisualizer
	WithLogger        = core.WithLogger
	WithMaxRedirects  = core.WithMaxRedirects
	WithInitialPath   = core.WithInitialPath
)

// New validates config and compiles it into a Router.
func New(config Config, opts ...Option) (*Router, error) {
	return core.New(config, opts...)
}

// NewState creates a state node for hand-built trees.
func NewState(name, route string) *State {
	return primitives.NewStateConfig(name, route)
}
