package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kfeurstein/flexion/core/metrics"
)

func TestPromSinkRecordsScenario(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	ev := coremetrics.ScenarioEvent{
		Project: "demo", TaskID: 1, ScenarioID: 5,
		Phase: coremetrics.PhaseReference, Duration: 20 * time.Millisecond,
	}
	if err := sink.RecordScenario(ev); err != nil {
		t.Fatalf("RecordScenario: %v", err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatal("no metrics gathered")
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	multi := coremetrics.NewMultiSink(coremetrics.NopSink{}, prom)
	if err := multi.RecordScenario(coremetrics.ScenarioEvent{Phase: coremetrics.PhaseOptimization}); err != nil {
		t.Fatalf("RecordScenario: %v", err)
	}
}
