package thermal

import (
	"context"
	"fmt"

	"github.com/kfeurstein/flexion/core/model"
)

// ScenarioReader reads building parameters from the scenario input table.
type ScenarioReader interface {
	Scenario(ctx context.Context, id model.ScenarioID) (model.Building, error)
}

// Builder constructs fully resolved scenarios from the input table plus the
// synthetic boundary profiles. Construction must not fail for any id present
// in the input table.
type Builder struct {
	st      ScenarioReader
	outdoor []float64
	price   []float64
}

// NewBuilder creates a Builder bound to one task's scenario table. The
// boundary profiles are computed once and shared across scenarios.
func NewBuilder(st ScenarioReader) *Builder {
	return &Builder{st: st, outdoor: SyntheticYear(), price: SyntheticPrices()}
}

// Build resolves one scenario id.
func (b *Builder) Build(ctx context.Context, id model.ScenarioID) (model.Scenario, error) {
	building, err := b.st.Scenario(ctx, id)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("build scenario %d: %w", id, err)
	}
	return model.Scenario{
		ID:          id,
		Building:    building,
		OutdoorTemp: b.outdoor,
		Price:       b.price,
	}, nil
}
