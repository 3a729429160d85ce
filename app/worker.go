package app

import (
	"context"
	"fmt"
	"os"

	"github.com/kfeurstein/flexion/core/optimize"
	"github.com/kfeurstein/flexion/core/project"
	"github.com/kfeurstein/flexion/core/runner"
	"github.com/kfeurstein/flexion/core/thermal"
	"github.com/kfeurstein/flexion/infra/collect"
	"github.com/kfeurstein/flexion/infra/logger"
	"github.com/kfeurstein/flexion/infra/store"
)

// RunWorker executes one partition against its isolated task database. It is
// the entry point of the worker subcommand and of the in-process launcher.
func (s *Service) RunWorker(ctx context.Context, taskID int) error {
	coord, err := project.New(s.cfg.Project.Name, s.cfg.Project.Path)
	if err != nil {
		return err
	}
	task := coord.Task(taskID)
	if _, err := os.Stat(task.DBPath()); err != nil {
		return fmt.Errorf("task %d: partition database missing: %w", taskID, err)
	}
	st, err := store.Open(task.DBPath())
	if err != nil {
		return fmt.Errorf("task %d: %w", taskID, err)
	}
	defer st.Close()

	r := runner.New(runner.Config{
		Project:      coord.Name(),
		TaskID:       taskID,
		Flags:        s.cfg.Execution.Flags(),
		Builder:      thermal.NewBuilder(st),
		Ref:          thermal.RefSolver{},
		Opt:          optimize.NewInstance(),
		RefCollector: collect.NewRef(st, task.Dir()),
		OptCollector: collect.NewOpt(st, task.Dir()),
		Log:          logger.ForTask("worker", taskID),
		Sink:         s.sink,
		Bus:          s.bus,
	})
	return r.Run(ctx, st)
}

// InProcessLauncher runs workers inside the orchestrating process. Workers
// keep separate database connections but share the process; it trades the
// isolation of the default launcher for a single-binary debugging story and
// is what the end-to-end tests use.
type InProcessLauncher struct {
	Service *Service
}

// Launch implements executor.Launcher.
func (l InProcessLauncher) Launch(ctx context.Context, task project.TaskHandle) error {
	return l.Service.RunWorker(ctx, task.ID())
}
