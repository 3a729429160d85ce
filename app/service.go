// Package app wires the partitioned simulation pipeline end to end:
// align, partition, execute, merge, clean up.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/kfeurstein/flexion/config"
	"github.com/kfeurstein/flexion/core/cleanup"
	"github.com/kfeurstein/flexion/core/executor"
	"github.com/kfeurstein/flexion/core/merge"
	coremetrics "github.com/kfeurstein/flexion/core/metrics"
	"github.com/kfeurstein/flexion/core/partition"
	"github.com/kfeurstein/flexion/core/progress"
	"github.com/kfeurstein/flexion/core/project"
	"github.com/kfeurstein/flexion/infra/logger"
	inframetrics "github.com/kfeurstein/flexion/infra/metrics"
	"github.com/kfeurstein/flexion/infra/store"
	"github.com/kfeurstein/flexion/internal/eventbus"
)

// Service orchestrates one partitioned simulation run.
type Service struct {
	cfg     *config.Config
	cfgPath string
	log     logger.Logger
	sink    coremetrics.Sink
	bus     *eventbus.Bus
	runID   string

	// launcher overrides the default process launcher, used by the
	// in-process mode and by tests.
	launcher executor.Launcher
}

// New creates a Service from the configuration. cfgPath is needed so worker
// processes can be re-invoked against the same configuration file.
func New(cfg *config.Config, cfgPath string) (*Service, error) {
	runID := uuid.NewString()
	logg := logger.ForRun("service", runID)

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := inframetrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, inframetrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	return &Service{
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     logg,
		sink:    sink,
		bus:     eventbus.New(),
		runID:   runID,
	}, nil
}

// SetLauncher replaces the worker launcher.
func (s *Service) SetLauncher(l executor.Launcher) { s.launcher = l }

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}

// RunPartitioned executes the whole pipeline for the configured project.
func (s *Service) RunPartitioned(ctx context.Context) error {
	coord, err := project.New(s.cfg.Project.Name, s.cfg.Project.Path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(coord.DBPath()); err != nil {
		return fmt.Errorf("canonical database missing at %s: %w", coord.DBPath(), err)
	}

	exec := s.cfg.Execution
	flags := exec.Flags()
	tables := project.EnabledResultTables(flags)
	s.log.Infof("project %s, %d tasks", coord.Name(), exec.Tasks)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := inframetrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go s.logProgress()

	// Phase 1: repair the canonical tables from a possible earlier crash.
	canonical, err := store.Open(coord.DBPath())
	if err != nil {
		return err
	}
	queue, err := canonical.ScenarioIDs(ctx)
	if err != nil {
		canonical.Close()
		return fmt.Errorf("canonical database: %w", err)
	}
	queue, err = progress.New(s.log).Align(ctx, canonical, queue, tables)
	if err != nil {
		canonical.Close()
		return fmt.Errorf("align canonical state: %w", err)
	}
	s.log.Infof("canonical state aligned, %d scenarios pending", len(queue))

	// Phase 2: build partitions unless a prior run left valid ones. A
	// forced reset never inspects the leftovers, it discards them.
	rebuild := exec.Reset
	if !rebuild {
		resumable, err := executor.Resumable(ctx, coord, exec.Tasks, tables, func(path string) (executor.ResumeStore, error) {
			return store.Open(path)
		})
		if err != nil {
			canonical.Close()
			return err
		}
		rebuild = !resumable
	}
	if rebuild {
		part := partition.New(func(path string) (partition.TaskStore, error) {
			return store.Open(path)
		}, s.log)
		if _, err := part.Create(ctx, coord, canonical, exec.Tasks); err != nil {
			canonical.Close()
			return err
		}
	} else {
		s.log.Infof("reusing %d in-progress partitions", exec.Tasks)
	}
	// The canonical database is single-writer: release it while the
	// workers run and reopen it for the merge phase.
	if err := canonical.Close(); err != nil {
		return fmt.Errorf("release canonical database: %w", err)
	}

	// Phase 3: fan out, one isolated worker per partition.
	taskIDs := make([]int, 0, exec.Tasks)
	for id := 1; id <= exec.Tasks; id++ {
		taskIDs = append(taskIDs, id)
	}
	if err := executor.New(s.workerLauncher(), s.log).Run(ctx, coord, taskIDs); err != nil {
		return err
	}

	// Phase 4: merge partition outputs back into the canonical store.
	canonical, err = store.Open(coord.DBPath())
	if err != nil {
		return err
	}
	merger := merge.New(s.log)
	if err := merger.Tables(ctx, canonical, coord, exec.Tasks); err != nil {
		canonical.Close()
		return err
	}
	if err := merger.Artifacts(coord, exec.Tasks); err != nil {
		canonical.Close()
		return err
	}

	// Phase 5: tear down the partition workspaces.
	cleaner := cleanup.New(s.log)
	cleaner.Attempts = exec.CleanupAttempts
	cleaner.Delay = exec.CleanupDelay()
	if err := cleaner.Run(ctx, coord, []io.Closer{canonical}); err != nil {
		return err
	}
	s.log.Infof("run complete")
	return nil
}

func (s *Service) workerLauncher() executor.Launcher {
	if s.launcher != nil {
		return s.launcher
	}
	return executor.ProcessLauncher{
		Args: func(taskID int) []string {
			return []string{"worker", "--config", s.cfgPath, "--task", strconv.Itoa(taskID)}
		},
	}
}

func (s *Service) logProgress() {
	sub := s.bus.Subscribe()
	for ev := range sub {
		if ev.Skipped {
			continue
		}
		s.log.Debugf("task %d finished scenario %d (%s)", ev.TaskID, ev.ScenarioID, ev.Phase)
	}
}
