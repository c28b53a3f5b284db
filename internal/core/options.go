// Options for configuring Router instances.
package core

import "go.uber.org/zap"

// WithID overrides the router ID. Without it the config ID is used, or a
// random UUID when the config has none.
func WithID(id string) Option {
	return func(r *Router) {
		r.id = id
	}
}

// WithLocation configures the Router with a host Location.
func WithLocation(l Location) Option {
	return func(r *Router) {
		if l != nil {
			r.location = l
		}
	}
}

// WithActionRunner configures the Router with a custom ActionRunner.
func WithActionRunner(a ActionRunner) Option {
	return func(r *Router) {
		if a != nil {
			r.actionRunner = a
		}
	}
}

// WithModelResolver configures how captured URL segments are turned into
// hook values.
func WithModelResolver(m ModelResolver) Option {
	return func(r *Router) {
		r.models = m
	}
}

// WithObserver adds a transition Observer. Observers run in registration order.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithPersister configures the Router with a custom Persister.
func WithPersister(p Persister) Option {
	return func(r *Router) {
		r.persister = p
	}
}

// WithRegistry configures the Router with a custom Registry for versioning snapshots.
func WithRegistry(reg Registry) Option {
	return func(r *Router) {
		r.registry = reg
	}
}

// WithVisualizer configures the Router with a custom Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(r *Router) {
		r.visualizer = v
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxRedirects bounds how many redirects one operation follows.
func WithMaxRedirects(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxRedirects = n
		}
	}
}

// WithInitialPath overrides the path routed by Start.
func WithInitialPath(path string) Option {
	return func(r *Router) {
		r.initialPath = path
	}
}
