// Package cleanup tears down partition workspaces after a merge. Deletion
// is tolerant of transient file locks: stubborn files are retried, and a
// folder that cannot be fully emptied is left intact with a warning.
package cleanup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kfeurstein/flexion/core/logger"
	"github.com/kfeurstein/flexion/core/project"
	"github.com/kfeurstein/flexion/internal/retry"
)

// Cleaner removes partition workspaces from the canonical output folder.
type Cleaner struct {
	// Attempts and Delay bound the per-file retry loop.
	Attempts int
	Delay    time.Duration
	log      logger.Logger

	// remove is swapped out in tests to simulate held locks.
	remove func(path string) error
}

// New creates a Cleaner with the default retry policy.
func New(log logger.Logger) *Cleaner {
	return &Cleaner{Attempts: 5, Delay: time.Second, log: log, remove: os.Remove}
}

// Run disposes the given store connections, then deletes every task
// subfolder of the canonical output folder. Top-level files are never
// touched. A folder that cannot be fully emptied is skipped entirely and
// reported as a warning; this is non-fatal.
func (c *Cleaner) Run(ctx context.Context, coord project.Coordinate, disposers []io.Closer) error {
	// Connections must be released before their backing files can be
	// deleted on platforms that hold exclusive locks.
	for _, d := range disposers {
		if err := d.Close(); err != nil && c.log != nil {
			c.log.Warnf("dispose connection: %v", err)
		}
	}

	entries, err := os.ReadDir(coord.OutputDir())
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "task_") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.removeTaskDir(filepath.Join(coord.OutputDir(), e.Name()))
	}
	return nil
}

func (c *Cleaner) removeTaskDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if c.log != nil {
			c.log.Warnf("read %s: %v, skipping", dir, err)
		}
		return
	}

	allDeleted := true
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		err := retry.Do(c.Attempts, c.Delay, func() error {
			return c.remove(path)
		}, func(err error) bool {
			// Only locking-style failures are worth retrying.
			return os.IsPermission(err) || isBusy(err)
		})
		if err != nil {
			allDeleted = false
			if c.log != nil {
				c.log.Warnf("delete %s: %v", path, err)
			}
		}
	}

	if !allDeleted {
		// Leave the folder intact rather than half-deleted; the next run
		// or the operator picks it up.
		if c.log != nil {
			c.log.Warnf("some files could not be deleted, skipping removal of %s", dir)
		}
		return
	}
	if err := c.remove(dir); err != nil && c.log != nil {
		c.log.Warnf("remove %s: %v", dir, err)
	}
}

func isBusy(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "busy")
}
