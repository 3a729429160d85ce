package executor

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/kfeurstein/flexion/core/project"
)

// ResumeStore is the read surface needed to inspect a task database.
type ResumeStore interface {
	TableNames(ctx context.Context) ([]string, error)
	Close() error
}

// ResumeOpener opens the task database at the given path.
type ResumeOpener func(path string) (ResumeStore, error)

// Resumable reports whether a prior run left valid in-progress partitions:
// every task workspace must hold a database file, and at least one of them
// must already contain an enabled result table. Anything less and the
// partitions are rebuilt from canonical state.
func Resumable(ctx context.Context, coord project.Coordinate, n int, tables []string, open ResumeOpener) (bool, error) {
	anyResults := false
	for id := 1; id <= n; id++ {
		task := coord.Task(id)
		if _, err := os.Stat(task.DBPath()); err != nil {
			return false, nil
		}
		st, err := open(task.DBPath())
		if err != nil {
			return false, fmt.Errorf("task %d: open task database: %w", id, err)
		}
		names, err := st.TableNames(ctx)
		if cerr := st.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return false, fmt.Errorf("task %d: %w", id, err)
		}
		for _, table := range tables {
			if slices.Contains(names, table) {
				anyResults = true
				break
			}
		}
	}
	return anyResults, nil
}
