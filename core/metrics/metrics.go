// Package metrics defines the sink interface used to record simulation
// progress. Sinks like PromSink and InfluxSink live in infra/metrics and
// can be combined with NewMultiSink.
package metrics

import (
	"time"

	"github.com/kfeurstein/flexion/core/model"
)

// Phase names recorded with scenario events.
const (
	PhaseReference    = "reference"
	PhaseOptimization = "optimization"
)

// ScenarioEvent describes one completed (or skipped) scenario solve.
type ScenarioEvent struct {
	Project    string
	TaskID     int
	ScenarioID model.ScenarioID
	Phase      string
	Skipped    bool
	Duration   time.Duration
}

// Sink records scenario events.
type Sink interface {
	RecordScenario(ev ScenarioEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordScenario implements Sink.
func (NopSink) RecordScenario(ScenarioEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordScenario forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordScenario(ev ScenarioEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordScenario(ev); err != nil {
			return err
		}
	}
	return nil
}

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}
