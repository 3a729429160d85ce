package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kfeurstein/flexion/app"
	"github.com/kfeurstein/flexion/config"
	"github.com/kfeurstein/flexion/infra/logger"
)

var (
	cfgPath     string
	projectPath string
	taskCount   int
	noOpt       bool
	forceReset  bool
	inProcess   bool
)

var rootCmd = &cobra.Command{
	Use:   "flexion",
	Short: "Partitioned building-energy scenario simulation",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().StringVar(&projectPath, "project", "", "override the configured project directory")
	rootCmd.Flags().IntVar(&taskCount, "tasks", 0, "override the configured partition count")
	rootCmd.Flags().BoolVar(&noOpt, "no-opt", false, "skip the optimization model")
	rootCmd.Flags().BoolVar(&forceReset, "reset", false, "discard in-progress partitions and start over")
	rootCmd.Flags().BoolVar(&inProcess, "in-process", false, "run workers inside this process instead of spawning one per partition")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Flag overrides are exported as environment overrides so worker
	// processes, which reload the file, see the same effective config.
	if projectPath != "" {
		os.Setenv("FLEXION_PROJECT__PATH", projectPath)
	}
	if taskCount > 0 {
		os.Setenv("FLEXION_EXECUTION__TASKS", strconv.Itoa(taskCount))
	}
	if noOpt {
		os.Setenv("FLEXION_EXECUTION__RUN_OPT", "false")
		os.Setenv("FLEXION_EXECUTION__RUN_REF", "true")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if forceReset {
		cfg.Execution.Reset = true
	}
	svc, err := app.New(cfg, cfgPath)
	if err != nil {
		return err
	}
	if inProcess {
		svc.SetLauncher(app.InProcessLauncher{Service: svc})
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.RunPartitioned(ctx)
}
