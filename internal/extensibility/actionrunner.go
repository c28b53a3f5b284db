package extensibility

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/core"
	"github.com/comalice/staterouter/internal/primitives"
)

// Registry is an ActionRunner that resolves string hook and handler IDs,
// as used by file-based configs. Function references run directly.
type Registry struct {
	mu       sync.RWMutex
	hooks    map[string]primitives.HookFunc
	handlers map[string]primitives.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks:    make(map[string]primitives.HookFunc),
		handlers: make(map[string]primitives.HandlerFunc),
	}
}

// RegisterHook binds id to an enter/exit hook.
func (r *Registry) RegisterHook(id string, fn primitives.HookFunc) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[id] = fn
	return r
}

// RegisterHandler binds id to an event handler.
func (r *Registry) RegisterHandler(id string, fn primitives.HandlerFunc) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = fn
	return r
}

// HasHook reports whether id is registered as a hook.
func (r *Registry) HasHook(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.hooks[id]
	return ok
}

// HasHandler reports whether id is registered as a handler.
func (r *Registry) HasHandler(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// Run executes the given action reference.
func (r *Registry) Run(ctx context.Context, action primitives.ActionRef, hc primitives.HookContext) error {
	id, ok := action.(string)
	if !ok {
		return core.RunAction(ctx, action, hc)
	}
	r.mu.RLock()
	fn, ok := r.hooks[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("hook ID '%s' not registered", id)
	}
	return fn(ctx, hc)
}

// Handler resolves a handler reference.
func (r *Registry) Handler(ref primitives.HandlerRef) (primitives.HandlerFunc, error) {
	id, ok := ref.(string)
	if !ok {
		return core.HandlerOf(ref)
	}
	r.mu.RLock()
	fn, ok := r.handlers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("handler ID '%s' not registered", id)
	}
	return fn, nil
}

// LoggingActionRunner wraps an ActionRunner and adds logging around execution.
type LoggingActionRunner struct {
	inner  core.ActionRunner
	logger *zap.Logger
}

// NewLoggingActionRunner creates a new LoggingActionRunner wrapping the given inner runner.
func NewLoggingActionRunner(inner core.ActionRunner, logger *zap.Logger) *LoggingActionRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingActionRunner{inner: inner, logger: logger}
}

// Run logs before and after delegating to the inner runner.
func (r *LoggingActionRunner) Run(ctx context.Context, action primitives.ActionRef, hc primitives.HookContext) error {
	fields := []zap.Field{zap.String("state", hc.State), zap.String("hook", describe(action))}
	if hc.Event != "" {
		fields = append(fields, zap.String("event", hc.Event))
	}
	r.logger.Debug("running hook", fields...)
	start := time.Now()
	err := r.inner.Run(ctx, action, hc)
	fields = append(fields, zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		r.logger.Warn("hook failed", append(fields, zap.Error(err))...)
		return err
	}
	r.logger.Debug("hook completed", fields...)
	return nil
}

// Handler delegates to the inner runner.
func (r *LoggingActionRunner) Handler(ref primitives.HandlerRef) (primitives.HandlerFunc, error) {
	fn, err := r.inner.Handler(ref)
	if err != nil {
		r.logger.Warn("handler unavailable", zap.String("handler", describe(ref)), zap.Error(err))
	}
	return fn, err
}

func describe(ref any) string {
	if id, ok := ref.(string); ok {
		return id
	}
	return fmt.Sprintf("%T", ref)
}
