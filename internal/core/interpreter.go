package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/primitives"
)

// maxDeferred bounds the operations queued by hooks during one outermost
// call, counting ops that have already been drained.
const maxDeferred = 64

type deferredOp struct {
	op Op
	fn func(context.Context) error
}

// dispatch runs fn, or queues it when called from a hook while another
// operation is in flight. Queued operations run in FIFO order after the
// outer operation commits; their errors are joined into the outer result.
func (r *Router) dispatch(ctx context.Context, op Op, fn func(context.Context) error) error {
	if r.busy {
		if r.queued >= maxDeferred {
			err := fmt.Errorf("%w: %s", ErrDeferredOverflow, op)
			r.observeError(ctx, op, err)
			return err
		}
		r.deferred = append(r.deferred, deferredOp{op: op, fn: fn})
		r.queued++
		r.logger.Debug("deferred", zap.String("op", string(op)), zap.Int("queued", len(r.deferred)))
		return nil
	}

	r.busy = true
	defer func() {
		r.busy = false
		r.deferred = nil
		r.queued = 0
	}()

	var errs []error
	if err := r.run(ctx, op, fn); err != nil {
		errs = append(errs, err)
	}
	for len(r.deferred) > 0 {
		next := r.deferred[0]
		r.deferred = r.deferred[1:]
		if err := r.run(ctx, next.op, next.fn); err != nil {
			errs = append(errs, err)
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

func (r *Router) run(ctx context.Context, op Op, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn(ctx)
	if err != nil {
		r.observeError(ctx, op, err)
	}
	return err
}

// defaultActionRunner executes function hooks and handlers directly.
// Named references need a registry-backed runner.
type defaultActionRunner struct{}

func (defaultActionRunner) Run(ctx context.Context, action primitives.ActionRef, hc primitives.HookContext) error {
	return RunAction(ctx, action, hc)
}

func (defaultActionRunner) Handler(ref primitives.HandlerRef) (primitives.HandlerFunc, error) {
	return HandlerOf(ref)
}

// RunAction executes a function hook. Supported forms are HookFunc, its
// unnamed equivalent, func(HookContext) and func().
func RunAction(ctx context.Context, action primitives.ActionRef, hc primitives.HookContext) error {
	switch a := action.(type) {
	case nil:
		return nil
	case primitives.HookFunc:
		return a(ctx, hc)
	case func(context.Context, primitives.HookContext) error:
		return a(ctx, hc)
	case func(primitives.HookContext):
		a(hc)
		return nil
	case func():
		a()
		return nil
	case string:
		return fmt.Errorf("unregistered hook %q", a)
	default:
		return fmt.Errorf("unsupported hook type %T", action)
	}
}

// HandlerOf converts a function handler reference into a HandlerFunc.
func HandlerOf(ref primitives.HandlerRef) (primitives.HandlerFunc, error) {
	switch h := ref.(type) {
	case primitives.HandlerFunc:
		return h, nil
	case func(context.Context, primitives.Transitioner, []any) error:
		return h, nil
	case func(primitives.Transitioner, []any):
		return func(_ context.Context, t primitives.Transitioner, contexts []any) error {
			h(t, contexts)
			return nil
		}, nil
	case string:
		return nil, fmt.Errorf("unregistered handler %q", h)
	default:
		return nil, fmt.Errorf("unsupported handler type %T", ref)
	}
}
