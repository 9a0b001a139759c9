package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus collectors for bootstrap runs. A nil
// *Metrics records nothing.
type Metrics struct {
	stepDuration *prometheus.HistogramVec
	stepResults  *prometheus.CounterVec
	runResults   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "appboot",
				Subsystem: "bootstrap",
				Name:      "step_duration_seconds",
				Help:      "Duration of bootstrap steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7min
			},
			[]string{"step"},
		),
		stepResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "appboot",
				Subsystem: "bootstrap",
				Name:      "step_total",
				Help:      "Total number of bootstrap steps by result",
			},
			[]string{"step", "result"},
		),
		runResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "appboot",
				Subsystem: "bootstrap",
				Name:      "run_total",
				Help:      "Total number of bootstrap runs by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.stepDuration, m.stepResults, m.runResults)
	return m
}

func (m *Metrics) observeStep(step string, result Status, d time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(step).Observe(d.Seconds())
	m.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (m *Metrics) observeRun(result Status) {
	if m == nil {
		return
	}
	m.runResults.WithLabelValues(string(result)).Inc()
}

// PushMetrics sends everything gathered by g to a Prometheus Pushgateway.
// The run ID becomes a grouping label so repeated runs do not overwrite
// each other.
func PushMetrics(ctx context.Context, url, runID string, g prometheus.Gatherer) error {
	err := push.New(url, "appboot_bootstrap").
		Gatherer(g).
		Grouping("run", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
