package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
project:
  name: demo
  path: /tmp/demo
execution:
  tasks: 4
  run_ref: true
  save_year: true
  save_hour: true
  hour_vars: [electricity_kw]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Fatalf("name = %s", cfg.Project.Name)
	}
	if cfg.Execution.Tasks != 4 {
		t.Fatalf("tasks = %d", cfg.Execution.Tasks)
	}
	f := cfg.Execution.Flags()
	if !f.RunRef || f.RunOpt {
		t.Fatalf("flags = %+v", f)
	}
	if !f.SaveHour || len(f.HourVars) != 1 {
		t.Fatalf("flags = %+v", f)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json",
		`{"project":{"name":"demo","path":"/tmp/demo"},"execution":{"tasks":2}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Defaults: both variants, yearly only.
	f := cfg.Execution.Flags()
	if !f.RunRef || !f.RunOpt || !f.SaveYear || f.SaveMonth {
		t.Fatalf("flags = %+v", f)
	}
	if cfg.Execution.CleanupAttempts != 5 {
		t.Fatalf("cleanup attempts = %d", cfg.Execution.CleanupAttempts)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsMissingProject(t *testing.T) {
	path := writeConfig(t, "config.yaml", "execution:\n  tasks: 2\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
project:
  name: demo
  path: /tmp/demo
execution:
  tasks: 2
`)
	t.Setenv("FLEXION_EXECUTION__TASKS", "8")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Execution.Tasks != 8 {
		t.Fatalf("tasks = %d", cfg.Execution.Tasks)
	}
}
