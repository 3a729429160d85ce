// Package collect persists solved scenario results: yearly and monthly
// aggregates into the project database, hourly profiles as gzip CSV
// artifacts in the output folder.
package collect

import (
	"context"
	"fmt"

	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/project"
)

// ResultStore is the slice of the store the collector writes through.
type ResultStore interface {
	AppendYearRow(ctx context.Context, table string, row model.YearAggregate) error
	AppendMonthRows(ctx context.Context, table string, rows []model.MonthAggregate) error
}

// Collector writes the results of one model variant. Persisting the same
// scenario twice duplicates rows; re-execution must be guarded by the
// progress aligner, not here.
type Collector struct {
	st           ResultStore
	outDir       string
	yearTable    string
	monthTable   string
	hourlyPrefix string
}

// NewRef creates the collector for reference-model results.
func NewRef(st ResultStore, outDir string) *Collector {
	return &Collector{
		st: st, outDir: outDir,
		yearTable: project.TableRefYear, monthTable: project.TableRefMonth,
		hourlyPrefix: project.ArtifactRefHourly,
	}
}

// NewOpt creates the collector for optimization-model results.
func NewOpt(st ResultStore, outDir string) *Collector {
	return &Collector{
		st: st, outDir: outDir,
		yearTable: project.TableOptYear, monthTable: project.TableOptMonth,
		hourlyPrefix: project.ArtifactOptHourly,
	}
}

// Persist writes the aggregation levels selected by the flags.
func (c *Collector) Persist(ctx context.Context, res *model.ResultModel, f model.Flags) error {
	if f.SaveYear {
		if err := c.st.AppendYearRow(ctx, c.yearTable, res.Year()); err != nil {
			return fmt.Errorf("persist year row: %w", err)
		}
	}
	if f.SaveMonth {
		if err := c.st.AppendMonthRows(ctx, c.monthTable, res.Months()); err != nil {
			return fmt.Errorf("persist month rows: %w", err)
		}
	}
	if f.SaveHour {
		if err := writeHourly(c.outDir, c.hourlyPrefix, res, f.HourVars); err != nil {
			return fmt.Errorf("persist hourly artifact: %w", err)
		}
	}
	return nil
}
