package observability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()

	ctx := context.Background()
	hooks.OnFinish(ctx, &domain.RunEvent{Errand: "ram", Status: domain.StatusOK, Duration: 20 * time.Millisecond})
	hooks.OnFinish(ctx, &domain.RunEvent{Errand: "ram", Status: domain.StatusOK})
	hooks.OnFinish(ctx, &domain.RunEvent{Errand: "sms", Status: domain.StatusError})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("ram", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("sms", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RunDuration))
}

func TestMetrics_ObserveOperation(t *testing.T) {
	m := NewMetrics()
	m.ObserveOperation("list", nil)
	m.ObserveOperation("delete", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExplorerOps.WithLabelValues("list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExplorerOps.WithLabelValues("delete", "error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveOperation("list", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `errand_explorer_operations_total{op="list",status="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCombine(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{OnFinish: func(context.Context, *domain.RunEvent) { calls = append(calls, "first") }}
	second := domain.LifecycleHooks{
		OnStart:  func(context.Context, *domain.RunEvent) { calls = append(calls, "start") },
		OnFinish: func(context.Context, *domain.RunEvent) { calls = append(calls, "second") },
	}

	hooks := Combine(first, second)
	hooks.OnStart(context.Background(), &domain.RunEvent{})
	hooks.OnFinish(context.Background(), &domain.RunEvent{})

	assert.Equal(t, []string{"start", "first", "second"}, calls)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)
	hooks := LoggingHooks(logger)

	hooks.OnStart(context.Background(), &domain.RunEvent{Errand: "ram"})
	hooks.OnFinish(context.Background(), &domain.RunEvent{Errand: "sms", Status: domain.StatusError, Detail: "unauthorized"})

	out := buf.String()
	assert.Contains(t, out, "errand_start")
	assert.True(t, strings.Contains(out, "err=unauthorized"), out)
}
