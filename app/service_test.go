package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kfeurstein/flexion/config"
	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/project"
	"github.com/kfeurstein/flexion/infra/store"
)

// newTestProject seeds a canonical database with n scenarios under a temp
// root and returns a matching configuration.
func newTestProject(t *testing.T, n, tasks int) *config.Config {
	t.Helper()
	root := t.TempDir()
	coord, err := project.New("demo", root)
	if err != nil {
		t.Fatalf("project.New: %v", err)
	}
	st, err := store.Open(coord.DBPath())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.InitScenarioTable(ctx); err != nil {
		t.Fatalf("InitScenarioTable: %v", err)
	}
	rows := make([]store.ScenarioRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, store.ScenarioRow{
			ID: model.ScenarioID(i),
			Building: model.Building{
				ThermalResistance: 5, ThermalCapacity: 10, HeatedArea: 120,
				HeatPumpCOP: 3.2, MaxHeatingPower: 8, MaxCoolingPower: 5,
				HeatingSetpoint: 20, CoolingSetpoint: 25, ComfortBand: 2, BaseLoad: 0.4,
			},
		})
	}
	if err := st.InsertScenarios(ctx, rows); err != nil {
		t.Fatalf("InsertScenarios: %v", err)
	}

	cfg := &config.Config{
		Project: config.ProjectConfig{Name: "demo", Path: root},
		Execution: config.ExecutionConfig{
			Tasks: tasks, RunRef: true, RunOpt: true,
			SaveYear: true, SaveMonth: true, SaveHour: true,
		},
	}
	cfg.Execution.SetDefaults()
	return cfg
}

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	svc, err := New(cfg, "")
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	svc.SetLauncher(InProcessLauncher{Service: svc})
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestRunPartitionedEndToEnd(t *testing.T) {
	cfg := newTestProject(t, 4, 2)
	svc := newTestService(t, cfg)
	ctx := context.Background()

	if err := svc.RunPartitioned(ctx); err != nil {
		t.Fatalf("RunPartitioned: %v", err)
	}

	coord, _ := project.New(cfg.Project.Name, cfg.Project.Path)
	st, err := store.Open(coord.DBPath())
	if err != nil {
		t.Fatalf("reopen canonical: %v", err)
	}
	defer st.Close()

	for _, table := range project.ResultTables() {
		ids, err := st.ResultScenarioIDs(ctx, table)
		if err != nil {
			t.Fatalf("%s: %v", table, err)
		}
		want := 4
		if table == project.TableRefMonth || table == project.TableOptMonth {
			want = 4 * 12
		}
		if len(ids) != want {
			t.Fatalf("%s: %d rows, want %d", table, len(ids), want)
		}
		if ids[0] != 1 || ids[len(ids)-1] != 4 {
			t.Fatalf("%s: ids span %d..%d", table, ids[0], ids[len(ids)-1])
		}
	}

	// Hourly artifacts migrated to the canonical output folder.
	name := project.HourlyArtifactName(project.ArtifactRefHourly, 3)
	if _, err := os.Stat(filepath.Join(coord.OutputDir(), name)); err != nil {
		t.Fatalf("hourly artifact not merged: %v", err)
	}

	// Partition workspaces torn down.
	for id := 1; id <= 2; id++ {
		if _, err := os.Stat(coord.Task(id).Dir()); !os.IsNotExist(err) {
			t.Fatalf("task %d workspace still present", id)
		}
	}
}

func TestRunPartitionedIdempotent(t *testing.T) {
	cfg := newTestProject(t, 3, 2)
	cfg.Execution.RunOpt = false
	cfg.Execution.SaveHour = false
	svc := newTestService(t, cfg)
	ctx := context.Background()

	if err := svc.RunPartitioned(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := svc.RunPartitioned(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}

	coord, _ := project.New(cfg.Project.Name, cfg.Project.Path)
	st, err := store.Open(coord.DBPath())
	if err != nil {
		t.Fatalf("reopen canonical: %v", err)
	}
	defer st.Close()
	ids, err := st.ResultScenarioIDs(ctx, project.TableRefYear)
	if err != nil {
		t.Fatalf("ResultScenarioIDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("rerun changed row count: %d", len(ids))
	}
}

func TestRunPartitionedMoreTasksThanScenarios(t *testing.T) {
	cfg := newTestProject(t, 2, 3)
	cfg.Execution.RunOpt = false
	cfg.Execution.SaveHour = false
	svc := newTestService(t, cfg)
	ctx := context.Background()

	// The third partition owns no scenarios; the merge must treat it as
	// empty, not as a gap.
	if err := svc.RunPartitioned(ctx); err != nil {
		t.Fatalf("RunPartitioned: %v", err)
	}

	coord, _ := project.New(cfg.Project.Name, cfg.Project.Path)
	st, err := store.Open(coord.DBPath())
	if err != nil {
		t.Fatalf("reopen canonical: %v", err)
	}
	defer st.Close()
	ids, err := st.ResultScenarioIDs(ctx, project.TableRefYear)
	if err != nil {
		t.Fatalf("ResultScenarioIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestRunPartitionedResetOverExistingPartitions(t *testing.T) {
	cfg := newTestProject(t, 3, 2)
	cfg.Execution.RunOpt = false
	cfg.Execution.SaveHour = false
	svc := newTestService(t, cfg)
	ctx := context.Background()

	if err := svc.RunPartitioned(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// A leftover workspace, as after a crash or a skipped cleanup.
	coord, _ := project.New(cfg.Project.Name, cfg.Project.Path)
	task := coord.Task(1)
	if err := task.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := os.WriteFile(task.DBPath(), []byte("leftover"), 0o644); err != nil {
		t.Fatalf("write leftover db: %v", err)
	}

	cfg.Execution.Reset = true
	if err := svc.RunPartitioned(ctx); err != nil {
		t.Fatalf("reset run over existing partitions: %v", err)
	}

	st, err := store.Open(coord.DBPath())
	if err != nil {
		t.Fatalf("reopen canonical: %v", err)
	}
	defer st.Close()
	ids, err := st.ResultScenarioIDs(ctx, project.TableRefYear)
	if err != nil {
		t.Fatalf("ResultScenarioIDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("rows after reset = %d", len(ids))
	}
}

func TestRunPartitionedMissingCanonical(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{
		Project:   config.ProjectConfig{Name: "demo", Path: root},
		Execution: config.ExecutionConfig{Tasks: 1, RunRef: true, SaveYear: true},
	}
	cfg.Execution.SetDefaults()
	svc := newTestService(t, cfg)

	if err := svc.RunPartitioned(context.Background()); err == nil {
		t.Fatal("expected error for missing canonical database")
	}
}
