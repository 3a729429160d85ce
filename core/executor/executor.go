// Package executor fans partition work out to isolated workers and waits
// for all of them before the merge phase may begin.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kfeurstein/flexion/core/logger"
	"github.com/kfeurstein/flexion/core/project"
)

// Launcher runs one partition to completion. Implementations decide the
// isolation level; the default launcher spawns a separate OS process.
type Launcher interface {
	Launch(ctx context.Context, task project.TaskHandle) error
}

// Executor runs one launcher per partition with a fan-in barrier.
type Executor struct {
	launcher Launcher
	log      logger.Logger
}

// New creates an Executor.
func New(launcher Launcher, log logger.Logger) *Executor {
	return &Executor{launcher: launcher, log: log}
}

// Run launches all tasks in parallel and blocks until every worker has
// returned. Workers share no mutable state; a failed worker aborts nothing
// else and is not retried. All worker errors are joined into the result.
func (e *Executor) Run(ctx context.Context, coord project.Coordinate, taskIDs []int) error {
	var wg sync.WaitGroup
	errs := make([]error, len(taskIDs))
	for i, id := range taskIDs {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			if err := e.launcher.Launch(ctx, coord.Task(id)); err != nil {
				errs[i] = fmt.Errorf("worker %d: %w", id, err)
				if e.log != nil {
					e.log.Errorf("worker %d failed: %v", id, err)
				}
			}
		}(i, id)
	}
	wg.Wait()
	return errors.Join(errs...)
}
