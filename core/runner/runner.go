// Package runner executes the per-scenario simulation loop of one
// partition: align the partition's own result tables, then solve every
// remaining scenario in ascending order.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/kfeurstein/flexion/core/logger"
	"github.com/kfeurstein/flexion/core/metrics"
	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/progress"
	"github.com/kfeurstein/flexion/core/project"
	"github.com/kfeurstein/flexion/internal/eventbus"
)

// ScenarioBuilder constructs the scenario description for one id. It must
// not fail for any id present in the scenario input table.
type ScenarioBuilder interface {
	Build(ctx context.Context, id model.ScenarioID) (model.Scenario, error)
}

// ReferenceSolver solves the reference operation model. Any error is fatal
// to the partition.
type ReferenceSolver interface {
	Solve(sc model.Scenario) (*model.ResultModel, error)
}

// OptimizationSolver solves the optimization model against a reusable
// instance. The boolean reports solver success; a false result is a soft
// skip, not an error.
type OptimizationSolver interface {
	Solve(sc model.Scenario) (*model.ResultModel, bool, error)
}

// Collector persists one model variant's results.
type Collector interface {
	Persist(ctx context.Context, res *model.ResultModel, f model.Flags) error
}

// Store is the slice of the partition's own database the runner needs: the
// scenario queue plus the aligner's repair surface.
type Store interface {
	progress.Store
	ScenarioIDs(ctx context.Context) ([]model.ScenarioID, error)
	// EnsureResultTable creates the named result table when missing.
	EnsureResultTable(ctx context.Context, table string) error
}

// Config wires one Runner.
type Config struct {
	Project      string
	TaskID       int
	Flags        model.Flags
	Builder      ScenarioBuilder
	Ref          ReferenceSolver
	Opt          OptimizationSolver
	RefCollector Collector
	OptCollector Collector
	Log          logger.Logger
	Sink         metrics.Sink
	Bus          *eventbus.Bus
}

// Runner runs one partition's scenarios sequentially.
type Runner struct {
	cfg     Config
	aligner *progress.Aligner
}

// New creates a Runner.
func New(cfg Config) *Runner {
	if cfg.Sink == nil {
		cfg.Sink = metrics.NopSink{}
	}
	return &Runner{cfg: cfg, aligner: progress.New(cfg.Log)}
}

// Run aligns the partition's result tables and solves the remaining queue.
func (r *Runner) Run(ctx context.Context, st Store) error {
	queue, err := st.ScenarioIDs(ctx)
	if err != nil {
		return fmt.Errorf("task %d: %w", r.cfg.TaskID, err)
	}
	tables := project.EnabledResultTables(r.cfg.Flags)
	queue, err = r.aligner.Align(ctx, st, queue, tables)
	if err != nil {
		return fmt.Errorf("task %d: align progress: %w", r.cfg.TaskID, err)
	}
	// Create every enabled table even when the queue is empty, so an
	// empty partition is distinguishable from a crashed one at merge
	// time.
	for _, table := range tables {
		if err := st.EnsureResultTable(ctx, table); err != nil {
			return fmt.Errorf("task %d: %w", r.cfg.TaskID, err)
		}
	}
	if r.cfg.Log != nil {
		r.cfg.Log.Infof("task %d: %d scenarios to run", r.cfg.TaskID, len(queue))
	}

	for _, id := range queue {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("task %d: scenario %d: %w", r.cfg.TaskID, id, err)
		}
		if err := r.runScenario(ctx, st, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runScenario(ctx context.Context, st Store, id model.ScenarioID) error {
	sc, err := r.cfg.Builder.Build(ctx, id)
	if err != nil {
		return fmt.Errorf("task %d: scenario %d: %w", r.cfg.TaskID, id, err)
	}

	if r.cfg.Flags.RunRef {
		start := time.Now()
		res, err := r.cfg.Ref.Solve(sc)
		if err != nil {
			return fmt.Errorf("task %d: scenario %d: reference solve: %w", r.cfg.TaskID, id, err)
		}
		if err := r.cfg.RefCollector.Persist(ctx, res, r.cfg.Flags); err != nil {
			return fmt.Errorf("task %d: scenario %d: %w", r.cfg.TaskID, id, err)
		}
		r.record(metrics.PhaseReference, id, false, time.Since(start))
	}

	if r.cfg.Flags.RunOpt {
		start := time.Now()
		res, ok, err := r.cfg.Opt.Solve(sc)
		if err != nil {
			return fmt.Errorf("task %d: scenario %d: optimization solve: %w", r.cfg.TaskID, id, err)
		}
		if !ok {
			// Soft skip: no row is written, leaving a detectable gap.
			if r.cfg.Log != nil {
				r.cfg.Log.Warnf("task %d: scenario %d: optimization infeasible, skipped", r.cfg.TaskID, id)
			}
			r.record(metrics.PhaseOptimization, id, true, time.Since(start))
			return nil
		}
		if err := r.cfg.OptCollector.Persist(ctx, res, r.cfg.Flags); err != nil {
			return fmt.Errorf("task %d: scenario %d: %w", r.cfg.TaskID, id, err)
		}
		r.record(metrics.PhaseOptimization, id, false, time.Since(start))
	}
	return nil
}

func (r *Runner) record(phase string, id model.ScenarioID, skipped bool, d time.Duration) {
	_ = r.cfg.Sink.RecordScenario(metrics.ScenarioEvent{
		Project: r.cfg.Project, TaskID: r.cfg.TaskID, ScenarioID: id,
		Phase: phase, Skipped: skipped, Duration: d,
	})
	if r.cfg.Bus != nil {
		r.cfg.Bus.Publish(eventbus.Progress{
			TaskID: r.cfg.TaskID, ScenarioID: int64(id),
			Phase: eventbus.Phase(phase), Skipped: skipped,
		})
	}
}
