package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/pkg/adapters/memory"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestRunner_JournalsSuccess(t *testing.T) {
	journal := memory.NewJournal()
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var started, finished *domain.RunEvent
	r := NewRunner(
		WithJournal(journal),
		WithClock(fakeClock(start, 2*time.Second)),
		WithLogger(logging.NewNop()),
		WithHooks(domain.LifecycleHooks{
			OnStart:  func(_ context.Context, e *domain.RunEvent) { started = e },
			OnFinish: func(_ context.Context, e *domain.RunEvent) { finished = e },
		}),
	)

	err := r.Run(context.Background(), "sms", func(ctx context.Context) (string, error) {
		return "SM123", nil
	})
	require.NoError(t, err)

	require.NotNil(t, started)
	assert.Equal(t, "sms", started.Errand)
	require.NotNil(t, finished)
	assert.Equal(t, domain.StatusOK, finished.Status)
	assert.Equal(t, 2*time.Second, finished.Duration)

	records, err := journal.Recent(context.Background(), "sms", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SM123", records[0].Detail)
	assert.True(t, start.Equal(records[0].StartedAt))
	assert.NotEmpty(t, records[0].ID)
}

func TestRunner_JournalsFailure(t *testing.T) {
	journal := memory.NewJournal()
	r := NewRunner(WithJournal(journal), WithLogger(logging.NewNop()))

	boom := errors.New("unauthorized")
	err := r.Run(context.Background(), "call", func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	records, err := journal.Recent(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusError, records[0].Status)
	assert.Equal(t, "unauthorized", records[0].Detail)
}

type failingJournal struct{}

func (failingJournal) Append(context.Context, domain.Record) error {
	return errors.New("disk full")
}

func (failingJournal) Recent(context.Context, string, int) ([]domain.Record, error) {
	return nil, nil
}

func TestRunner_JournalErrorIsNotFatal(t *testing.T) {
	r := NewRunner(WithJournal(failingJournal{}), WithLogger(logging.NewNop()))
	err := r.Run(context.Background(), "ram", func(ctx context.Context) (string, error) {
		return "", nil
	})
	assert.NoError(t, err)
}

func TestIsInterrupted(t *testing.T) {
	assert.True(t, IsInterrupted(context.Canceled))
	assert.True(t, IsInterrupted(fmt.Errorf("prompt: %w", huh.ErrUserAborted)))
	assert.False(t, IsInterrupted(errors.New("boom")))
	assert.False(t, IsInterrupted(nil))
}
