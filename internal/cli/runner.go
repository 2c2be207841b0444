package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
)

// ErrandFunc performs one errand and returns a short detail for the journal
// (a message SID, an output path, a result count).
type ErrandFunc func(ctx context.Context) (string, error)

// Runner executes errands, firing lifecycle hooks and journaling the outcome.
type Runner struct {
	hooks   domain.LifecycleHooks
	journal ports.Journal
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Runner)

func WithHooks(h domain.LifecycleHooks) Option {
	return func(r *Runner) { r.hooks = h }
}

// WithJournal records every run. Journal failures are logged, never returned.
func WithJournal(j ports.Journal) Option {
	return func(r *Runner) { r.journal = j }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes fn as the errand called name and returns fn's error.
func (r *Runner) Run(ctx context.Context, name string, fn ErrandFunc) error {
	start := r.now()
	event := &domain.RunEvent{Timestamp: start, Errand: name}
	if r.hooks.OnStart != nil {
		r.hooks.OnStart(ctx, event)
	}

	detail, err := fn(ctx)

	finished := &domain.RunEvent{
		Timestamp: r.now(),
		Errand:    name,
		Status:    domain.StatusOK,
		Detail:    detail,
	}
	finished.Duration = finished.Timestamp.Sub(start)
	if err != nil {
		finished.Status = domain.StatusError
		finished.Detail = err.Error()
	}
	if r.hooks.OnFinish != nil {
		r.hooks.OnFinish(ctx, finished)
	}

	if r.journal != nil {
		record := domain.Record{
			ID:        uuid.NewString(),
			Errand:    name,
			Status:    finished.Status,
			Detail:    finished.Detail,
			StartedAt: start,
			Duration:  finished.Duration,
		}
		if jerr := r.journal.Append(context.WithoutCancel(ctx), record); jerr != nil {
			r.logger.Warn("Failed to journal errand run", "errand", name, "error", jerr)
		}
	}
	return err
}

// IsInterrupted reports whether err comes from the user cancelling
// (Ctrl+C or an aborted prompt) rather than from a failure.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, huh.ErrUserAborted)
}
