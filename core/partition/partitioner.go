package partition

import (
	"context"
	"fmt"
	"os"

	"github.com/kfeurstein/flexion/core/logger"
	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/project"
)

// CanonicalStore is the slice of the canonical database the partitioner reads.
type CanonicalStore interface {
	// ScenarioIDs returns the ordered scenario universe. It fails when the
	// scenario input table is missing.
	ScenarioIDs(ctx context.Context) ([]model.ScenarioID, error)
	// CopyTo writes a consistent full copy of the database to the path.
	CopyTo(ctx context.Context, path string) error
}

// TaskStore is an open connection to one task's isolated database.
type TaskStore interface {
	// RestrictScenarios fully replaces the scenario input table with the
	// rows in [lo, hi].
	RestrictScenarios(ctx context.Context, lo, hi model.ScenarioID) error
	// RestrictResults drops result rows outside [lo, hi]; absent tables
	// are a no-op.
	RestrictResults(ctx context.Context, table string, lo, hi model.ScenarioID) error
	Close() error
}

// Opener opens the task database at the given path.
type Opener func(path string) (TaskStore, error)

// Partitioner materializes isolated task workspaces from the canonical state.
type Partitioner struct {
	open Opener
	log  logger.Logger
}

// New creates a Partitioner using open for task databases.
func New(open Opener, log logger.Logger) *Partitioner {
	return &Partitioner{open: open, log: log}
}

// Create splits the canonical scenario universe into n ranges and builds one
// workspace per range: a full copy of the canonical database whose scenario
// input table and result tables are then cut down to the range. It fails
// when the canonical database or its scenario table is missing.
func (p *Partitioner) Create(ctx context.Context, coord project.Coordinate, canonical CanonicalStore, n int) ([]Range, error) {
	ids, err := canonical.ScenarioIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read scenario universe: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("scenario universe is empty")
	}
	ranges := Split(int64(len(ids)), n)

	for _, r := range ranges {
		task := coord.Task(r.TaskID)
		// Discard any leftover workspace first: stale database files from
		// a prior run would make the copy fail, and stale artifacts would
		// be merged as if freshly computed.
		if err := os.RemoveAll(task.Dir()); err != nil {
			return nil, fmt.Errorf("task %d: discard stale workspace: %w", r.TaskID, err)
		}
		if err := task.EnsureDir(); err != nil {
			return nil, err
		}
		if err := canonical.CopyTo(ctx, task.DBPath()); err != nil {
			return nil, fmt.Errorf("task %d: %w", r.TaskID, err)
		}
		ts, err := p.open(task.DBPath())
		if err != nil {
			return nil, fmt.Errorf("task %d: open task database: %w", r.TaskID, err)
		}
		err = ts.RestrictScenarios(ctx, r.Low, r.High)
		// Result rows copied from the canonical database must not leak
		// into other partitions' ranges, or the merge would duplicate
		// them.
		for _, table := range project.ResultTables() {
			if err != nil {
				break
			}
			err = ts.RestrictResults(ctx, table, r.Low, r.High)
		}
		if cerr := ts.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", r.TaskID, err)
		}
		if p.log != nil {
			p.log.Infof("task %d owns scenarios [%d, %d]", r.TaskID, r.Low, r.High)
		}
	}
	return ranges, nil
}
