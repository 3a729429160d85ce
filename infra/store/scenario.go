package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/project"
)

const createScenarioTable = `
CREATE TABLE IF NOT EXISTS scenario (
    scenario_id       INTEGER PRIMARY KEY,
    thermal_resistance REAL NOT NULL,
    thermal_capacity   REAL NOT NULL,
    heated_area        REAL NOT NULL,
    heat_pump_cop      REAL NOT NULL,
    max_heating_power  REAL NOT NULL,
    max_cooling_power  REAL NOT NULL,
    heating_setpoint   REAL NOT NULL,
    cooling_setpoint   REAL NOT NULL,
    comfort_band       REAL NOT NULL,
    base_load          REAL NOT NULL
)`

// ErrNoScenario is returned when a scenario id is absent from the input table.
var ErrNoScenario = errors.New("scenario not found")

// ScenarioRow is one row of the scenario input table.
type ScenarioRow struct {
	ID       model.ScenarioID
	Building model.Building
}

// InitScenarioTable creates the scenario input table when missing.
func (s *Store) InitScenarioTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createScenarioTable); err != nil {
		return fmt.Errorf("create scenario table: %w", err)
	}
	return nil
}

// InsertScenarios appends rows to the scenario input table.
func (s *Store) InsertScenarios(ctx context.Context, rows []ScenarioRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scenario (
		scenario_id, thermal_resistance, thermal_capacity, heated_area,
		heat_pump_cop, max_heating_power, max_cooling_power,
		heating_setpoint, cooling_setpoint, comfort_band, base_load
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		b := r.Building
		if _, err := stmt.ExecContext(ctx,
			int64(r.ID), b.ThermalResistance, b.ThermalCapacity, b.HeatedArea,
			b.HeatPumpCOP, b.MaxHeatingPower, b.MaxCoolingPower,
			b.HeatingSetpoint, b.CoolingSetpoint, b.ComfortBand, b.BaseLoad,
		); err != nil {
			return fmt.Errorf("insert scenario %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scenarios: %w", err)
	}
	return nil
}

// ScenarioIDs returns all scenario ids in ascending order.
func (s *Store) ScenarioIDs(ctx context.Context) ([]model.ScenarioID, error) {
	ok, err := s.HasTable(ctx, project.TableScenario)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, project.TableScenario)
	}
	rows, err := s.db.QueryContext(ctx, "SELECT scenario_id FROM scenario ORDER BY scenario_id")
	if err != nil {
		return nil, fmt.Errorf("query scenario ids: %w", err)
	}
	defer rows.Close()
	var ids []model.ScenarioID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan scenario id: %w", err)
		}
		ids = append(ids, model.ScenarioID(id))
	}
	return ids, rows.Err()
}

// Scenario reads the building parameters of one scenario.
func (s *Store) Scenario(ctx context.Context, id model.ScenarioID) (model.Building, error) {
	var b model.Building
	err := s.db.QueryRowContext(ctx, `SELECT
		thermal_resistance, thermal_capacity, heated_area, heat_pump_cop,
		max_heating_power, max_cooling_power, heating_setpoint,
		cooling_setpoint, comfort_band, base_load
	FROM scenario WHERE scenario_id = ?`, int64(id)).Scan(
		&b.ThermalResistance, &b.ThermalCapacity, &b.HeatedArea, &b.HeatPumpCOP,
		&b.MaxHeatingPower, &b.MaxCoolingPower, &b.HeatingSetpoint,
		&b.CoolingSetpoint, &b.ComfortBand, &b.BaseLoad,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Building{}, fmt.Errorf("%w: %d", ErrNoScenario, id)
	}
	if err != nil {
		return model.Building{}, fmt.Errorf("read scenario %d: %w", id, err)
	}
	return b, nil
}

// RestrictScenarios fully replaces the scenario table with the rows whose
// id falls inside [lo, hi]. Used when materializing a task database.
func (s *Store) RestrictScenarios(ctx context.Context, lo, hi model.ScenarioID) error {
	ok, err := s.HasTable(ctx, project.TableScenario)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTable, project.TableScenario)
	}
	stmts := []string{
		"DROP TABLE IF EXISTS scenario_tmp",
		fmt.Sprintf("CREATE TABLE scenario_tmp AS SELECT * FROM scenario WHERE scenario_id >= %d AND scenario_id <= %d", lo, hi),
		"DROP TABLE scenario",
		"ALTER TABLE scenario_tmp RENAME TO scenario",
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("restrict scenarios to [%d,%d]: %w", lo, hi, err)
		}
	}
	return nil
}
