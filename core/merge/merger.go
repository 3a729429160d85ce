// Package merge folds partition outputs back into the canonical store:
// result tables are concatenated in partition order, hourly artifacts are
// moved into the canonical output folder.
package merge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kfeurstein/flexion/core/logger"
	"github.com/kfeurstein/flexion/core/project"
)

// ErrTableGap reports a result table present in some partitions but absent
// from others, which indicates an inconsistent prior run.
var ErrTableGap = errors.New("result table missing from some partitions")

// CanonicalStore is the write surface of the canonical database the merger
// needs. Partition databases are attached by path.
type CanonicalStore interface {
	Attach(ctx context.Context, alias, dbPath string) error
	Detach(ctx context.Context, alias string) error
	HasAttachedTable(ctx context.Context, alias, table string) (bool, error)
	ReplaceTableFrom(ctx context.Context, table string, aliases []string) error
}

// Merger runs strictly after the worker barrier.
type Merger struct {
	log logger.Logger
}

// New creates a Merger.
func New(log logger.Logger) *Merger {
	return &Merger{log: log}
}

// Tables merges every result table from the n partition databases into the
// canonical store, in partition order. A table held by no partition is
// skipped; a table held by only some partitions is a fatal gap. The policy
// is all-or-none rather than first-gap-wins, so the outcome does not depend
// on partition order.
func (m *Merger) Tables(ctx context.Context, canonical CanonicalStore, coord project.Coordinate, n int) error {
	aliases := make([]string, 0, n)
	// Registered before attaching so a mid-loop attach failure still
	// detaches whatever made it on.
	defer func() {
		for _, alias := range aliases {
			if err := canonical.Detach(ctx, alias); err != nil && m.log != nil {
				m.log.Warnf("detach %s: %v", alias, err)
			}
		}
	}()
	for id := 1; id <= n; id++ {
		alias := fmt.Sprintf("task_%d", id)
		if err := canonical.Attach(ctx, alias, coord.Task(id).DBPath()); err != nil {
			return err
		}
		aliases = append(aliases, alias)
	}

	for _, table := range project.ResultTables() {
		present := 0
		firstMissing := 0
		for id := 1; id <= n; id++ {
			ok, err := canonical.HasAttachedTable(ctx, aliases[id-1], table)
			if err != nil {
				return err
			}
			if ok {
				present++
			} else if firstMissing == 0 {
				firstMissing = id
			}
		}
		switch {
		case present == 0:
			continue
		case present < n:
			return fmt.Errorf("%w: %s missing from task %d", ErrTableGap, table, firstMissing)
		}
		if err := canonical.ReplaceTableFrom(ctx, table, aliases); err != nil {
			return err
		}
		if m.log != nil {
			m.log.Infof("merged %s from %d partitions", table, n)
		}
	}
	return nil
}

// Artifacts moves hourly artifact files from every partition's output folder
// into the canonical output folder. Files are moved, not copied; after the
// move a partition folder holds no artifacts.
func (m *Merger) Artifacts(coord project.Coordinate, n int) error {
	for id := 1; id <= n; id++ {
		dir := coord.Task(id).Dir()
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("task %d: read output folder: %w", id, err)
		}
		for _, e := range entries {
			if e.IsDir() || !project.IsHourlyArtifact(e.Name()) {
				continue
			}
			src := filepath.Join(dir, e.Name())
			dst := filepath.Join(coord.OutputDir(), e.Name())
			if err := os.Rename(src, dst); err != nil {
				return fmt.Errorf("task %d: move artifact %s: %w", id, e.Name(), err)
			}
		}
	}
	return nil
}
