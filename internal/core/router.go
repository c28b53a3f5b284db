// Package core provides the runtime tier of the router: the state tree
// resolver, the transition engine, event routing and URL generation.
// Dependencies: internal/primitives.
//
// A Router is not safe for concurrent use. Hooks and handlers may call back
// into the router; those calls are deferred until the running transition
// commits.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/primitives"
)

// Pluggable component interfaces. Implementations live in the extensibility
// and production tiers.

// Location abstracts the host URL mechanism (hash fragment, history API,
// in-memory for tests).
type Location interface {
	// SetURL writes the path to the host.
	SetURL(path string)
	// FormatURL turns a router path into the host's URL form.
	FormatURL(path string) string
}

// ActionRunner runs enter/exit hooks and resolves event handlers.
type ActionRunner interface {
	Run(ctx context.Context, action primitives.ActionRef, hc primitives.HookContext) error
	Handler(ref primitives.HandlerRef) (primitives.HandlerFunc, error)
}

// ModelResolver turns a raw URL segment into the value hooks receive.
type ModelResolver interface {
	Deserialize(param, raw string) (any, error)
}

// Observer is notified synchronously after every committed transition and
// on every failed operation.
type Observer interface {
	OnTransition(ctx context.Context, rec TransitionRecord)
	OnError(ctx context.Context, op Op, err error)
}

// Persister stores the latest snapshot of a router.
type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, routerID string) (Snapshot, error)
}

// Visualizer renders the state tree.
type Visualizer interface {
	ExportDOT(config primitives.RouterConfig, current string) string
	ExportJSON(config primitives.RouterConfig) ([]byte, error)
}

// Op names a router operation in records, logs and errors.
type Op string

const (
	OpRoute        Op = "route"
	OpSend         Op = "send"
	OpTransitionTo Op = "transitionTo"
	OpURLForEvent  Op = "urlForEvent"
)

// TransitionRecord describes one committed transition.
type TransitionRecord struct {
	RouterID   string            `json:"routerID"`
	Sequence   uint64            `json:"sequence"`
	Op         Op                `json:"op"`
	Event      string            `json:"event,omitempty"`
	From       string            `json:"from,omitempty"`
	To         string            `json:"to"`
	Exited     []string          `json:"exited,omitempty"`
	Entered    []string          `json:"entered,omitempty"`
	URL        string            `json:"url"`
	Params     map[string]string `json:"params,omitempty"`
	Redirected bool              `json:"redirected,omitempty"`
	HookErrors int               `json:"hookErrors,omitempty"`
	Started    time.Time         `json:"started"`
	Duration   time.Duration     `json:"duration"`
}

// Option applies configuration to Router via functional options pattern.
type Option func(*Router)

// DefaultMaxRedirects bounds redirect chains followed by a single operation.
const DefaultMaxRedirects = 8

// Router is the runtime instance of a routing state tree.
type Router struct {
	id      string
	config  primitives.RouterConfig
	version string

	root       *node
	stateCache map[string]*node

	current *node
	params  primitives.Context
	url     string
	seq     uint64

	busy     bool
	deferred []deferredOp
	// queued counts every op deferred since the outermost call began.
	queued int

	initialPath  string
	maxRedirects int

	location     Location
	actionRunner ActionRunner
	models       ModelResolver
	observers    []Observer
	persister    Persister
	registry     Registry
	visualizer   Visualizer
	logger       *zap.Logger
}

// New validates config, compiles the state tree and applies options.
// The router starts inactive; call Start to route the initial path.
func New(config primitives.RouterConfig, opts ...Option) (*Router, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	root, cache, err := compileTree(&config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	r := &Router{
		id:           config.ID,
		config:       config,
		version:      primitives.ComputeVersion(&config),
		root:         root,
		stateCache:   cache,
		initialPath:  config.InitialPath,
		maxRedirects: DefaultMaxRedirects,
		location:     nopLocation{},
		actionRunner: defaultActionRunner{},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == "" {
		r.id = uuid.NewString()
	}
	if r.initialPath == "" {
		r.initialPath = "/"
	}
	r.logger = r.logger.With(zap.String("router", r.id))
	return r, nil
}

// Start routes the initial path. It is equivalent to Route(ctx, initialPath).
func (r *Router) Start(ctx context.Context) error {
	return r.Route(ctx, r.initialPath)
}

// Route resolves path against the tree and transitions to the matched leaf.
// The host URL is only rewritten when a redirect or default descent changed
// the canonical URL.
func (r *Router) Route(ctx context.Context, path string) error {
	return r.dispatch(ctx, OpRoute, func(ctx context.Context) error {
		p, err := r.planRoute(path)
		if err != nil {
			return err
		}
		return r.apply(ctx, p)
	})
}

// Send looks the event up from the current leaf outward and performs the
// transition it names. The host URL is always written.
func (r *Router) Send(ctx context.Context, event string, contexts ...any) error {
	return r.dispatch(ctx, OpSend, func(ctx context.Context) error {
		if r.current == nil {
			return fmt.Errorf("%w: send %q", ErrNotStarted, event)
		}
		p, err := r.planEvent(ctx, primitives.NewEvent(event, contexts...))
		if err != nil {
			return err
		}
		return r.apply(ctx, p)
	})
}

// TransitionTo transitions to target, resolved relative to the current state.
// Before Start, targets resolve from the root.
func (r *Router) TransitionTo(ctx context.Context, target string, contexts ...any) error {
	return r.dispatch(ctx, OpTransitionTo, func(ctx context.Context) error {
		p, err := r.planTarget(OpTransitionTo, "", target, contexts)
		if err != nil {
			return err
		}
		return r.apply(ctx, p)
	})
}

// URLForEvent returns the formatted URL that Send(event, contexts...) would
// produce, without transitioning, running hooks or touching the location.
func (r *Router) URLForEvent(event string, contexts ...any) (string, error) {
	ctx := context.Background()
	if r.current == nil {
		err := fmt.Errorf("%w: url for %q", ErrNotStarted, event)
		r.observeError(ctx, OpURLForEvent, err)
		return "", err
	}
	p, err := r.planEvent(ctx, primitives.NewEvent(event, contexts...))
	if err != nil {
		r.observeError(ctx, OpURLForEvent, err)
		return "", err
	}
	return r.location.FormatURL(p.url), nil
}

// URLFor returns the formatted URL of target without transitioning.
func (r *Router) URLFor(target string, contexts ...any) (string, error) {
	p, err := r.planTarget(OpTransitionTo, "", target, contexts)
	if err != nil {
		return "", err
	}
	return r.location.FormatURL(p.url), nil
}

// Resolve reports the leaf and context path would land on, including
// redirects, without transitioning.
func (r *Router) Resolve(path string) (string, primitives.Context, error) {
	p, err := r.planRoute(path)
	if err != nil {
		return "", nil, err
	}
	return p.to.path, p.params, nil
}

// CurrentPath returns the active leaf path, or "" before Start.
func (r *Router) CurrentPath() string {
	if r.current == nil {
		return ""
	}
	return r.current.path
}

// CurrentContext returns a copy of the active context.
func (r *Router) CurrentContext() primitives.Context {
	return r.params.With()
}

// CurrentURL returns the formatted URL of the active leaf, or "" before Start.
func (r *Router) CurrentURL() string {
	if r.current == nil {
		return ""
	}
	return r.location.FormatURL(r.url)
}

// IsActive reports whether the state at path is on the active chain.
func (r *Router) IsActive(path string) bool {
	n, ok := r.stateCache[path]
	return ok && r.isActive(n)
}

// ID returns the router ID.
func (r *Router) ID() string { return r.id }

// Version returns the config version the router was built from.
func (r *Router) Version() string { return r.version }

// Config returns the router configuration.
func (r *Router) Config() primitives.RouterConfig { return r.config }

// Snapshot captures the current position of the router.
func (r *Router) Snapshot() Snapshot {
	return Snapshot{
		RouterID:      r.id,
		ConfigVersion: r.version,
		Sequence:      r.seq,
		Current:       r.CurrentPath(),
		URL:           r.url,
		Context:       r.params.With(),
		Timestamp:     time.Now(),
	}
}

// Restore moves the router to a snapshot's position without running hooks
// or writing the location. When the snapshot's state no longer exists the
// position is left alone but the sequence still moves forward, so snapshots
// committed afterwards do not collide with the stored history.
func (r *Router) Restore(snapshot Snapshot) error {
	if snapshot.RouterID != r.id {
		return fmt.Errorf("%w: %s != %s", ErrRouterMismatch, snapshot.RouterID, r.id)
	}
	if r.busy {
		return fmt.Errorf("%w: cannot restore", ErrBusy)
	}
	if snapshot.Current == "" {
		r.current, r.params, r.url, r.seq = nil, nil, "", snapshot.Sequence
		return nil
	}
	n, ok := r.stateCache[snapshot.Current]
	if !ok {
		r.ResumeSequence(snapshot.Sequence)
		return fmt.Errorf("%w: %s", ErrUnknownState, snapshot.Current)
	}
	if snapshot.ConfigVersion != r.version {
		r.logger.Warn("restoring snapshot from a different config version",
			zap.String("snapshot", snapshot.ConfigVersion), zap.String("config", r.version))
	}
	r.current = n
	r.params = snapshot.Context.With()
	r.url = snapshot.URL
	r.seq = snapshot.Sequence
	return nil
}

// ResumeSequence raises the snapshot sequence to seq. Lower values are
// ignored.
func (r *Router) ResumeSequence(seq uint64) {
	if seq > r.seq {
		r.seq = seq
	}
}

// Resume continues from the newest snapshot in the registry. If there is no
// registry or no stored snapshot, or the snapshot no longer fits the config,
// it falls back to Start.
func (r *Router) Resume(ctx context.Context) error {
	if r.registry == nil {
		return r.Start(ctx)
	}
	snap, err := r.registry.Latest(ctx, r.id)
	switch {
	case errors.Is(err, ErrNotFound):
		return r.Start(ctx)
	case err != nil:
		return err
	}
	err = r.Restore(snap)
	if err == nil {
		r.logger.Info("resumed from snapshot",
			zap.String("state", snap.Current), zap.Uint64("seq", snap.Sequence))
		return nil
	}
	if errors.Is(err, ErrBusy) {
		return err
	}
	r.logger.Warn("stored snapshot does not fit the config", zap.Error(err))
	return r.Start(ctx)
}

// Visualize exports the tree in DOT format with the active chain highlighted.
func (r *Router) Visualize() string {
	if r.visualizer == nil {
		return ""
	}
	return r.visualizer.ExportDOT(r.config, r.CurrentPath())
}

// nopLocation keeps URLs in the router only.
type nopLocation struct{}

func (nopLocation) SetURL(string) {}

func (nopLocation) FormatURL(path string) string { return path }
