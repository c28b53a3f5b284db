package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/primitives"
)

// plan is a fully resolved transition: nothing in it touches the router
// until apply.
type plan struct {
	op         Op
	event      string
	to         *node
	params     primitives.Context
	url        string
	exit       []*node // innermost first
	enter      []*node // outermost first
	setURL     bool
	redirected bool
}

// lookupEvent finds the innermost active state declaring event.
func (r *Router) lookupEvent(event string) (*node, primitives.TransitionConfig, bool) {
	for n := r.current; n != nil; n = n.parent {
		if trans, ok := n.config.On[event]; ok {
			return n, trans, true
		}
	}
	return nil, primitives.TransitionConfig{}, false
}

// planEvent resolves an event to a plan. Handler entries take precedence
// over a literal target.
func (r *Router) planEvent(ctx context.Context, evt primitives.Event) (*plan, error) {
	src, trans, ok := r.lookupEvent(evt.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnhandledEvent, evt.Name, r.current.path)
	}

	target, contexts := trans.Target, evt.Contexts
	if trans.Handler != nil {
		var err error
		target, contexts, err = r.recordHandler(ctx, src, trans.Handler, evt)
		if err != nil {
			return nil, err
		}
	}
	return r.planTarget(OpSend, evt.Name, target, contexts)
}

// recordHandler runs a handler against a recording Transitioner and returns
// the single transition it asked for. A call without contexts inherits the
// event's contexts.
func (r *Router) recordHandler(ctx context.Context, src *node, ref primitives.HandlerRef, evt primitives.Event) (string, []any, error) {
	fn, err := r.actionRunner.Handler(ref)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q on %s: %w", ErrHandlerUnavailable, evt.Name, src.path, err)
	}

	rec := &recorder{current: r.current.path}
	if err := fn(ctx, rec, evt.Contexts); err != nil {
		return "", nil, fmt.Errorf("handler for %q on %s: %w", evt.Name, src.path, err)
	}

	switch len(rec.calls) {
	case 0:
		return "", nil, fmt.Errorf("%w: %q on %s", ErrNoTransition, evt.Name, src.path)
	case 1:
	default:
		return "", nil, fmt.Errorf("%w: %q on %s called TransitionTo %d times", ErrAmbiguousHandler, evt.Name, src.path, len(rec.calls))
	}

	call := rec.calls[0]
	if len(call.contexts) == 0 {
		return call.target, evt.Contexts, nil
	}
	return call.target, call.contexts, nil
}

// planTarget resolves target relative to the current state (the root before
// Start) and plans the transition to it.
func (r *Router) planTarget(op Op, event, target string, contexts []any) (*plan, error) {
	from := r.root.path
	if r.current != nil {
		from = r.current.path
	}
	path, err := r.config.ResolveTarget(from, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownState, err)
	}

	dest := defaultLeaf(r.stateCache[path])
	params, err := r.bind(dest, contexts)
	if err != nil {
		return nil, err
	}
	p, err := r.finish(op, event, dest, params)
	if err != nil {
		return nil, err
	}
	p.setURL = true
	return p, nil
}

// bind assigns supplied contexts to the dynamic segments on dest's chain.
// Contexts align with the innermost segments; outer segments reuse the
// current context when their state stays active, else the call fails.
func (r *Router) bind(dest *node, contexts []any) (primitives.Context, error) {
	type slot struct {
		state *node
		name  string
	}
	var slots []slot
	for _, n := range dest.chain {
		for _, name := range n.pattern.Params() {
			slots = append(slots, slot{n, name})
		}
	}
	if len(contexts) > len(slots) {
		contexts = contexts[len(contexts)-len(slots):]
	}
	offset := len(slots) - len(contexts)

	params := make(primitives.Context, 0, len(slots))
	for i, s := range slots {
		if i >= offset {
			v := contexts[i-offset]
			raw, ok := serializeParam(s.name, v)
			if !ok {
				return nil, fmt.Errorf("%w: cannot serialize :%s of %s from %T", ErrMissingContext, s.name, s.state.path, v)
			}
			params = append(params, primitives.Param{State: s.state.path, Name: s.name, Value: v, Raw: raw})
			continue
		}
		if p, ok := r.params.Lookup(s.state.path, s.name); ok && r.isActive(s.state) {
			params = append(params, p)
			continue
		}
		return nil, fmt.Errorf("%w: no value for :%s of %s", ErrMissingContext, s.name, s.state.path)
	}
	return params, nil
}

// finish follows redirects from dest, builds the URL and diffs against the
// active chain.
func (r *Router) finish(op Op, event string, dest *node, params primitives.Context) (*plan, error) {
	dest, params, redirected, err := r.followRedirects(dest, params)
	if err != nil {
		return nil, err
	}
	url, err := buildURL(dest, params)
	if err != nil {
		return nil, err
	}

	p := &plan{
		op:         op,
		event:      event,
		to:         dest,
		params:     params,
		url:        url,
		redirected: redirected,
	}
	p.exit, p.enter = r.diff(dest, params)
	return p, nil
}

// diff finds the first divergence between the active chain and dest's chain.
// A state whose own params changed counts as divergent, so changing
// context re-enters the state and everything under it.
func (r *Router) diff(dest *node, params primitives.Context) (exit, enter []*node) {
	var active []*node
	if r.current != nil {
		active = r.current.chain
	}

	k := 0
	for k < len(active) && k < len(dest.chain) && active[k] == dest.chain[k] &&
		sameParams(r.params.Owned(active[k].path), params.Owned(active[k].path)) {
		k++
	}

	for i := len(active) - 1; i >= k; i-- {
		exit = append(exit, active[i])
	}
	enter = append(enter, dest.chain[k:]...)
	return exit, enter
}

func sameParams(a, b primitives.Context) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Raw != b[i].Raw {
			return false
		}
	}
	return true
}

// apply runs exit hooks innermost first, entry hooks outermost first, then
// commits. Hook failures are collected and never abort the sequence.
func (r *Router) apply(ctx context.Context, p *plan) error {
	started := time.Now()
	from := r.CurrentPath()

	var hookErrs []error
	for _, n := range p.exit {
		hookErrs = append(hookErrs, r.runHooks(ctx, n, n.config.Exit, r.params, p.event)...)
	}
	for _, n := range p.enter {
		hookErrs = append(hookErrs, r.runHooks(ctx, n, n.config.Entry, p.params, p.event)...)
	}

	r.current = p.to
	r.params = p.params
	r.url = p.url
	r.seq++
	if p.setURL {
		r.location.SetURL(p.url)
	}

	rec := TransitionRecord{
		RouterID:   r.id,
		Sequence:   r.seq,
		Op:         p.op,
		Event:      p.event,
		From:       from,
		To:         p.to.path,
		Exited:     paths(p.exit),
		Entered:    paths(p.enter),
		URL:        p.url,
		Params:     p.params.Snapshot(),
		Redirected: p.redirected,
		HookErrors: len(hookErrs),
		Started:    started,
		Duration:   time.Since(started),
	}
	r.logger.Debug("transition",
		zap.String("op", string(p.op)),
		zap.String("from", from),
		zap.String("to", rec.To),
		zap.String("url", rec.URL),
		zap.Uint64("seq", rec.Sequence))

	for _, o := range r.observers {
		o.OnTransition(ctx, rec)
	}
	r.persist(ctx)

	if len(hookErrs) > 0 {
		return fmt.Errorf("%w: %w", ErrHookFailed, errors.Join(hookErrs...))
	}
	return nil
}

func (r *Router) runHooks(ctx context.Context, n *node, actions []primitives.ActionRef, params primitives.Context, event string) []error {
	if len(actions) == 0 {
		return nil
	}
	hc := primitives.HookContext{
		Router: r,
		State:  n.path,
		Params: params.Owned(n.path),
		Event:  event,
	}
	var errs []error
	for _, action := range actions {
		if err := r.actionRunner.Run(ctx, action, hc); err != nil {
			r.logger.Warn("hook failed", zap.String("state", n.path), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", n.path, err))
		}
	}
	return errs
}

// persist saves the committed snapshot. Storage failures are logged; the
// transition itself has already happened.
func (r *Router) persist(ctx context.Context) {
	if r.persister == nil && r.registry == nil {
		return
	}
	snap := r.Snapshot()
	if r.persister != nil {
		if err := r.persister.Save(ctx, snap); err != nil {
			r.logger.Warn("persist snapshot", zap.Error(err))
		}
	}
	if r.registry != nil {
		if err := r.registry.Register(ctx, r.id, snap); err != nil {
			r.logger.Warn("register snapshot", zap.Error(err))
		}
	}
}

func (r *Router) observeError(ctx context.Context, op Op, err error) {
	r.logger.Debug("operation failed", zap.String("op", string(op)), zap.Error(err))
	for _, o := range r.observers {
		o.OnError(ctx, op, err)
	}
}

// isActive reports whether n is on the active chain.
func (r *Router) isActive(n *node) bool {
	return r.current != nil && n.depth < len(r.current.chain) && r.current.chain[n.depth] == n
}

// recorder is the Transitioner handed to event handlers. It records calls
// instead of transitioning.
type recorder struct {
	current string
	calls   []recordedCall
}

type recordedCall struct {
	target   string
	contexts []any
}

func (rec *recorder) CurrentPath() string { return rec.current }

func (rec *recorder) TransitionTo(target string, contexts ...any) {
	rec.calls = append(rec.calls, recordedCall{target: target, contexts: contexts})
}
