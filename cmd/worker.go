package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kfeurstein/flexion/app"
	"github.com/kfeurstein/flexion/config"
)

var workerTask int

// workerCmd is spawned by the orchestrator, one process per partition. It is
// hidden because operators never invoke it directly.
var workerCmd = &cobra.Command{
	Use:    "worker",
	Short:  "Run one partition's scenarios",
	Hidden: true,
	RunE:   runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerTask, "task", 0, "partition task id")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if workerTask < 1 {
		return fmt.Errorf("worker requires --task >= 1, got %d", workerTask)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, cfgPath)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.RunWorker(ctx, workerTask)
}
