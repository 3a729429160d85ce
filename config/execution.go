package config

import (
	"fmt"
	"time"

	"github.com/kfeurstein/flexion/core/model"
)

// ProjectConfig locates one project on disk.
type ProjectConfig struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ExecutionConfig controls the partitioned run.
type ExecutionConfig struct {
	Tasks     int      `json:"tasks"`
	RunRef    bool     `json:"run_ref"`
	RunOpt    bool     `json:"run_opt"`
	SaveYear  bool     `json:"save_year"`
	SaveMonth bool     `json:"save_month"`
	SaveHour  bool     `json:"save_hour"`
	HourVars  []string `json:"hour_vars"`
	// Reset discards in-progress partitions and re-partitions from the
	// canonical database unconditionally.
	Reset bool `json:"reset"`

	CleanupAttempts     int `json:"cleanup_attempts"`
	CleanupDelaySeconds int `json:"cleanup_delay_seconds"`
}

// SetDefaults fills unset values. When no model variant is selected both
// run; when no aggregation is selected yearly results are persisted.
func (c *ExecutionConfig) SetDefaults() {
	if c.Tasks == 0 {
		c.Tasks = 1
	}
	if !c.RunRef && !c.RunOpt {
		c.RunRef = true
		c.RunOpt = true
	}
	if !c.SaveYear && !c.SaveMonth && !c.SaveHour {
		c.SaveYear = true
	}
	if c.CleanupAttempts == 0 {
		c.CleanupAttempts = 5
	}
	if c.CleanupDelaySeconds == 0 {
		c.CleanupDelaySeconds = 1
	}
}

// Validate checks the execution settings.
func (c *ExecutionConfig) Validate() error {
	if c.Tasks < 1 {
		return fmt.Errorf("execution.tasks must be >= 1, got %d", c.Tasks)
	}
	return nil
}

// Flags maps the configuration onto execution flags.
func (c *ExecutionConfig) Flags() model.Flags {
	return model.Flags{
		RunRef:    c.RunRef,
		RunOpt:    c.RunOpt,
		SaveYear:  c.SaveYear,
		SaveMonth: c.SaveMonth,
		SaveHour:  c.SaveHour,
		HourVars:  c.HourVars,
	}
}

// CleanupDelay returns the backoff delay between deletion attempts.
func (c *ExecutionConfig) CleanupDelay() time.Duration {
	return time.Duration(c.CleanupDelaySeconds) * time.Second
}
