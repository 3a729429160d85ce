// Package partition splits the scenario universe into contiguous, disjoint
// id ranges and materializes one isolated workspace per range.
package partition

import "github.com/kfeurstein/flexion/core/model"

// Range is the inclusive scenario id range owned by one task.
type Range struct {
	TaskID int
	Low    model.ScenarioID
	High   model.ScenarioID
}

// Empty reports whether the range holds no ids.
func (r Range) Empty() bool { return r.High < r.Low }

// Split divides ids 1..total into n contiguous ranges. The chunk size is
// ceil(total/n); task k owns [1+chunk*(k-1), chunk*k], except the last task
// which owns up to total, absorbing any remainder. When n exceeds total,
// trailing ranges are empty.
func Split(total int64, n int) []Range {
	if total < 1 || n < 1 {
		return nil
	}
	chunk := (total + int64(n) - 1) / int64(n)
	ranges := make([]Range, 0, n)
	for k := 1; k <= n; k++ {
		lo := 1 + chunk*int64(k-1)
		hi := chunk * int64(k)
		if k == n || hi > total {
			hi = total
		}
		ranges = append(ranges, Range{TaskID: k, Low: model.ScenarioID(lo), High: model.ScenarioID(hi)})
	}
	return ranges
}
