// Package project defines the immutable coordinates of a simulation run:
// where a project's input, output and database live, and how per-task
// workspaces are derived from them.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Coordinate identifies one project run. It is immutable once constructed;
// per-task paths are derived with Task, never by mutating a Coordinate.
type Coordinate struct {
	name string
	root string
}

// New creates a Coordinate for the project directory, creating the input
// and output folders when missing.
func New(name, root string) (Coordinate, error) {
	if name == "" {
		return Coordinate{}, fmt.Errorf("project name must not be empty")
	}
	c := Coordinate{name: name, root: root}
	for _, dir := range []string{c.InputDir(), c.OutputDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Coordinate{}, fmt.Errorf("create project folder %s: %w", dir, err)
		}
	}
	return c, nil
}

// Name returns the stable project name.
func (c Coordinate) Name() string { return c.name }

// InputDir returns the project input folder.
func (c Coordinate) InputDir() string { return filepath.Join(c.root, "input") }

// OutputDir returns the canonical output folder.
func (c Coordinate) OutputDir() string { return filepath.Join(c.root, "output") }

// DBPath returns the canonical database location.
func (c Coordinate) DBPath() string {
	return filepath.Join(c.OutputDir(), c.name+".db")
}

// Task derives the handle of one partition workspace. The receiver is
// copied, never mutated.
func (c Coordinate) Task(id int) TaskHandle {
	return TaskHandle{coord: c, id: id}
}

// TaskHandle is a Coordinate specialized with a task id. It lives only for
// the duration of one worker's execution.
type TaskHandle struct {
	coord Coordinate
	id    int
}

// ID returns the 1-based task id.
func (t TaskHandle) ID() int { return t.id }

// Coordinate returns the project coordinate the handle was derived from.
func (t TaskHandle) Coordinate() Coordinate { return t.coord }

// Dir returns the task's isolated output folder.
func (t TaskHandle) Dir() string {
	return filepath.Join(t.coord.OutputDir(), fmt.Sprintf("task_%d", t.id))
}

// DBPath returns the task's isolated database location.
func (t TaskHandle) DBPath() string {
	return filepath.Join(t.Dir(), t.coord.Name()+".db")
}

// EnsureDir creates the task folder when missing.
func (t TaskHandle) EnsureDir() error {
	if err := os.MkdirAll(t.Dir(), 0o755); err != nil {
		return fmt.Errorf("create task folder %s: %w", t.Dir(), err)
	}
	return nil
}
