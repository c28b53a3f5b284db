package production

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/staterouter/internal/core"
)

// MetricsObserver records transition counts, latencies and failures.
type MetricsObserver struct {
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	entered     *prometheus.CounterVec
	errors      *prometheus.CounterVec
	hookErrors  prometheus.Counter
	sequence    *prometheus.GaugeVec
}

// NewMetricsObserver registers the router metrics with reg. A nil reg uses
// the default registerer.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &MetricsObserver{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staterouter_transitions_total",
			Help: "Committed transitions by operation.",
		}, []string{"op"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staterouter_transition_duration_seconds",
			Help:    "Time spent running hooks and committing a transition.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		entered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staterouter_states_entered_total",
			Help: "State entries by state path.",
		}, []string{"state"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staterouter_errors_total",
			Help: "Failed operations by operation and error kind.",
		}, []string{"op", "kind"}),
		hookErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "staterouter_hook_errors_total",
			Help: "Enter and exit hook failures.",
		}),
		sequence: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "staterouter_sequence",
			Help: "Sequence number of the last committed transition.",
		}, []string{"router"}),
	}
}

func (m *MetricsObserver) OnTransition(ctx context.Context, rec core.TransitionRecord) {
	op := string(rec.Op)
	m.transitions.WithLabelValues(op).Inc()
	m.duration.WithLabelValues(op).Observe(rec.Duration.Seconds())
	for _, state := range rec.Entered {
		m.entered.WithLabelValues(state).Inc()
	}
	if rec.HookErrors > 0 {
		m.hookErrors.Add(float64(rec.HookErrors))
	}
	m.sequence.WithLabelValues(rec.RouterID).Set(float64(rec.Sequence))
}

func (m *MetricsObserver) OnError(ctx context.Context, op core.Op, err error) {
	m.errors.WithLabelValues(string(op), ErrorKind(err)).Inc()
}

// ErrorKind classifies router errors into a short label.
func ErrorKind(err error) string {
	kinds := []struct {
		target error
		kind   string
	}{
		{core.ErrHookFailed, "hook_failed"},
		{core.ErrNotStarted, "not_started"},
		{core.ErrNoMatchingRoute, "no_matching_route"},
		{core.ErrUnhandledEvent, "unhandled_event"},
		{core.ErrUnknownState, "unknown_state"},
		{core.ErrMissingContext, "missing_context"},
		{core.ErrNoTransition, "no_transition"},
		{core.ErrAmbiguousHandler, "ambiguous_handler"},
		{core.ErrHandlerUnavailable, "handler_unavailable"},
		{core.ErrRedirectLoop, "redirect_loop"},
		{core.ErrDeferredOverflow, "deferred_overflow"},
		{context.Canceled, "canceled"},
		{context.DeadlineExceeded, "deadline"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return "other"
}
