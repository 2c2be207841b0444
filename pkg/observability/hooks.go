package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/errand/pkg/domain"
)

// LoggingHooks logs the start and end of every run.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("errand_start", "errand", e.Errand)
		},
		OnFinish: func(ctx context.Context, e *domain.RunEvent) {
			attrs := []any{"errand", e.Errand, "status", e.Status, "duration", e.Duration}
			if e.Status == domain.StatusError {
				logger.Error("errand_finish", append(attrs, "error", e.Detail)...)
				return
			}
			logger.Info("errand_finish", append(attrs, "detail", e.Detail)...)
		},
	}
}

// Combine returns hooks that invoke each of hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnStart != nil {
					h.OnStart(ctx, e)
				}
			}
		},
		OnFinish: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnFinish != nil {
					h.OnFinish(ctx, e)
				}
			}
		},
	}
}
