package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kfeurstein/flexion/core/model"
)

func TestNewCreatesFolders(t *testing.T) {
	root := t.TempDir()
	c, err := New("demo", root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, dir := range []string{c.InputDir(), c.OutputDir()} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("folder %s missing: %v", dir, err)
		}
	}
	if c.DBPath() != filepath.Join(root, "output", "demo.db") {
		t.Fatalf("db path = %s", c.DBPath())
	}
}

func TestNewRejectsEmptyName(t *testing.T) {
	if _, err := New("", t.TempDir()); err == nil {
		t.Fatal("expected error")
	}
}

func TestTaskDerivation(t *testing.T) {
	c, err := New("demo", t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := c.Task(3)
	if h.ID() != 3 {
		t.Fatalf("id = %d", h.ID())
	}
	if h.Dir() != filepath.Join(c.OutputDir(), "task_3") {
		t.Fatalf("dir = %s", h.Dir())
	}
	if h.DBPath() != filepath.Join(h.Dir(), "demo.db") {
		t.Fatalf("db = %s", h.DBPath())
	}
	// Deriving a handle must not touch the coordinate.
	if c.DBPath() == h.DBPath() {
		t.Fatal("task handle shares the canonical db path")
	}
	if err := h.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if _, err := os.Stat(h.Dir()); err != nil {
		t.Fatalf("task dir missing: %v", err)
	}
}

func TestEnabledResultTables(t *testing.T) {
	f := model.Flags{RunRef: true, RunOpt: true, SaveYear: true, SaveMonth: true}
	got := EnabledResultTables(f)
	want := []string{TableRefYear, TableOptYear, TableRefMonth, TableOptMonth}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	f = model.Flags{RunRef: true, SaveYear: true}
	got = EnabledResultTables(f)
	if len(got) != 1 || got[0] != TableRefYear {
		t.Fatalf("got %v", got)
	}

	if got := EnabledResultTables(model.Flags{SaveHour: true}); len(got) != 0 {
		t.Fatalf("hour-only flags must enable no tables, got %v", got)
	}
}

func TestHourlyArtifactName(t *testing.T) {
	name := HourlyArtifactName(ArtifactRefHourly, 12)
	if name != "ref_hourly_S12.csv.gz" {
		t.Fatalf("name = %s", name)
	}
	if !IsHourlyArtifact(name) {
		t.Fatal("expected artifact match")
	}
	if IsHourlyArtifact("demo.db") {
		t.Fatal("db must not match")
	}
}
