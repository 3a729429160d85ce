// Package progress decides whether a prior run can be resumed without
// recomputation or duplicate result rows, repairing crash-interrupted
// writes first.
package progress

import (
	"context"
	"fmt"

	"github.com/kfeurstein/flexion/core/logger"
	"github.com/kfeurstein/flexion/core/model"
)

// Store is the slice of the result store the aligner needs.
type Store interface {
	// LatestScenarioID returns the last appended scenario id of the table;
	// the second value is false when the table is absent or empty.
	LatestScenarioID(ctx context.Context, table string) (model.ScenarioID, bool, error)
	// DeleteFromScenario removes all rows with scenario id >= id. Absent
	// tables are a no-op.
	DeleteFromScenario(ctx context.Context, table string, id model.ScenarioID) error
}

// Aligner trims scenario queues against previously written result tables.
type Aligner struct {
	log logger.Logger
}

// New creates an Aligner. A nil logger disables logging.
func New(log logger.Logger) *Aligner {
	return &Aligner{log: log}
}

// Align inspects the latest written scenario id of every enabled result
// table and returns the trimmed queue.
//
// No table present: nothing to resume, the full queue is returned. One
// distinct latest id X: the tables agree; rows >= X are deleted and the
// queue resumes AT X, re-executing the last observed scenario instead of
// trusting it as fully committed. Multiple distinct ids: a crash
// interrupted a multi-table write; rows >= min are deleted from every
// enabled table and the queue resumes at min.
//
// The repair is local: only the latest id per table is inspected, never row
// counts or column content.
func (a *Aligner) Align(ctx context.Context, st Store, queue []model.ScenarioID, tables []string) ([]model.ScenarioID, error) {
	latest := make([]model.ScenarioID, 0, len(tables))
	for _, table := range tables {
		id, ok, err := st.LatestScenarioID(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table, err)
		}
		if ok {
			latest = append(latest, id)
		}
	}
	if len(latest) == 0 {
		return queue, nil
	}

	resume := latest[0]
	for _, id := range latest[1:] {
		if id < resume {
			resume = id
		}
	}
	if misaligned(latest) && a.log != nil {
		a.log.Warnf("result tables misaligned (latest ids %v), repairing from scenario %d", latest, resume)
	}

	// Delete from the resume id up, in every enabled table. This both
	// repairs misalignment and prevents a duplicate row when the resume
	// scenario is re-executed.
	for _, table := range tables {
		if err := st.DeleteFromScenario(ctx, table, resume); err != nil {
			return nil, fmt.Errorf("repair %s: %w", table, err)
		}
	}
	return TrimAt(queue, resume), nil
}

func misaligned(ids []model.ScenarioID) bool {
	for _, id := range ids[1:] {
		if id != ids[0] {
			return true
		}
	}
	return false
}

// TrimAt keeps x and everything after it in the queue. When x is absent the
// trimmed queue is empty: nothing is left to do.
func TrimAt(queue []model.ScenarioID, x model.ScenarioID) []model.ScenarioID {
	for i, id := range queue {
		if id == x {
			return queue[i:]
		}
	}
	return nil
}
