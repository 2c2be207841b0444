package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the errand collectors.
type Metrics struct {
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	ExplorerOps *prometheus.CounterVec
	gatherer    prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a fresh registry
// that also carries the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetricsWith(reg, reg)
}

// NewMetricsWith registers the collectors on reg and serves them from g.
func NewMetricsWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errand_runs_total",
				Help: "Total number of errand runs by outcome",
			},
			[]string{"errand", "status"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "errand_run_duration_seconds",
				Help:    "Duration of errand runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"errand"},
		),
		ExplorerOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errand_explorer_operations_total",
				Help: "Explorer API operations by outcome",
			},
			[]string{"op", "status"},
		),
		gatherer: g,
	}
	reg.MustRegister(m.Runs, m.RunDuration, m.ExplorerOps)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveOperation counts one explorer operation.
func (m *Metrics) ObserveOperation(op string, err error) {
	status := domain.StatusOK
	if err != nil {
		status = domain.StatusError
	}
	m.ExplorerOps.WithLabelValues(op, string(status)).Inc()
}

// Hooks records finished runs.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFinish: func(ctx context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(e.Errand, string(e.Status)).Inc()
			m.RunDuration.WithLabelValues(e.Errand).Observe(e.Duration.Seconds())
		},
	}
}
