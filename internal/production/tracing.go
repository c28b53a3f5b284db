package production

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/staterouter/internal/core"
)

const tracerName = "github.com/comalice/staterouter"

// TracingObserver emits one span per committed transition, back-dated to
// the transition's start, and one error span per failed operation.
type TracingObserver struct {
	tracer trace.Tracer
}

// NewTracingObserver creates a TracingObserver. A nil provider uses the
// global one.
func NewTracingObserver(tp trace.TracerProvider) *TracingObserver {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracingObserver{tracer: tp.Tracer(tracerName)}
}

func (o *TracingObserver) OnTransition(ctx context.Context, rec core.TransitionRecord) {
	attrs := []attribute.KeyValue{
		attribute.String("router.id", rec.RouterID),
		attribute.Int64("router.sequence", int64(rec.Sequence)),
		attribute.String("router.from", rec.From),
		attribute.String("router.to", rec.To),
		attribute.String("router.url", rec.URL),
		attribute.StringSlice("router.exited", rec.Exited),
		attribute.StringSlice("router.entered", rec.Entered),
		attribute.Bool("router.redirected", rec.Redirected),
	}
	if rec.Event != "" {
		attrs = append(attrs, attribute.String("router.event", rec.Event))
	}

	_, span := o.tracer.Start(ctx, "router."+string(rec.Op),
		trace.WithTimestamp(rec.Started),
		trace.WithAttributes(attrs...),
	)
	if rec.HookErrors > 0 {
		span.SetStatus(codes.Error, "hook failed")
		span.SetAttributes(attribute.Int("router.hook_errors", rec.HookErrors))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(rec.Started.Add(rec.Duration)))
}

func (o *TracingObserver) OnError(ctx context.Context, op core.Op, err error) {
	_, span := o.tracer.Start(ctx, "router."+string(op),
		trace.WithAttributes(attribute.String("router.error_kind", ErrorKind(err))),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}
