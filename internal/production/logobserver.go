package production

import (
	"context"

	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/core"
)

// LogObserver writes one structured entry per transition and failure.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnTransition(ctx context.Context, rec core.TransitionRecord) {
	fields := []zap.Field{
		zap.String("router", rec.RouterID),
		zap.Uint64("seq", rec.Sequence),
		zap.String("op", string(rec.Op)),
		zap.String("from", rec.From),
		zap.String("to", rec.To),
		zap.String("url", rec.URL),
		zap.Duration("elapsed", rec.Duration),
	}
	if rec.Event != "" {
		fields = append(fields, zap.String("event", rec.Event))
	}
	if rec.Redirected {
		fields = append(fields, zap.Bool("redirected", true))
	}
	if rec.HookErrors > 0 {
		o.logger.Warn("transition with hook errors", append(fields, zap.Int("hook_errors", rec.HookErrors))...)
		return
	}
	o.logger.Info("transition", fields...)
}

func (o *LogObserver) OnError(ctx context.Context, op core.Op, err error) {
	o.logger.Warn("router operation failed",
		zap.String("op", string(op)),
		zap.String("kind", ErrorKind(err)),
		zap.Error(err))
}
