// Package metrics provides Prometheus and InfluxDB implementations of the
// core metrics sink.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kfeurstein/flexion/core/metrics"
)

// PromSink records scenario events in Prometheus metrics.
type PromSink struct {
	scenarios *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The scrape server is started separately via StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	scenarios := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_scenarios_total",
		Help: "Total number of scenario solves",
	}, []string{"project", "phase", "skipped"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_scenario_duration_seconds",
		Help:    "Wall time of one scenario solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"project", "phase"})

	if err := reg.Register(scenarios); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			scenarios = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{scenarios: scenarios, duration: duration}, nil
}

// RecordScenario increments the scenario counter and observes the solve time.
func (s *PromSink) RecordScenario(ev coremetrics.ScenarioEvent) error {
	s.scenarios.WithLabelValues(ev.Project, ev.Phase, strconv.FormatBool(ev.Skipped)).Inc()
	if !ev.Skipped {
		s.duration.WithLabelValues(ev.Project, ev.Phase).Observe(ev.Duration.Seconds())
	}
	return nil
}
