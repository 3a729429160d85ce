package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/kfeurstein/flexion/core/project"
)

// ProcessLauncher runs a partition in a separate OS process by re-invoking
// the current binary, giving workers full process isolation: their own
// database connection, heap and file handles.
type ProcessLauncher struct {
	// Path of the binary to invoke. Empty means the current executable.
	Path string
	// Args builds the argument list for one task, typically the worker
	// subcommand plus the task id.
	Args func(taskID int) []string
}

// Launch implements Launcher.
func (p ProcessLauncher) Launch(ctx context.Context, task project.TaskHandle) error {
	exe := p.Path
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
	}
	cmd := exec.CommandContext(ctx, exe, p.Args(task.ID())...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("worker process: %w", err)
	}
	return nil
}
