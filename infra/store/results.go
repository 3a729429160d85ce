package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/project"
)

const createYearTable = `
CREATE TABLE IF NOT EXISTS %s (
    scenario_id     INTEGER NOT NULL,
    heating_kwh     REAL NOT NULL,
    cooling_kwh     REAL NOT NULL,
    electricity_kwh REAL NOT NULL,
    cost_eur        REAL NOT NULL
)`

const createMonthTable = `
CREATE TABLE IF NOT EXISTS %s (
    scenario_id     INTEGER NOT NULL,
    month           INTEGER NOT NULL,
    heating_kwh     REAL NOT NULL,
    cooling_kwh     REAL NOT NULL,
    electricity_kwh REAL NOT NULL,
    cost_eur        REAL NOT NULL
)`

// EnsureResultTable creates the named result table when missing. The schema
// is picked from the table name: month tables carry a month column, year
// tables do not.
func (s *Store) EnsureResultTable(ctx context.Context, table string) error {
	tmpl := createYearTable
	if table == project.TableRefMonth || table == project.TableOptMonth {
		tmpl = createMonthTable
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(tmpl, quoteIdent(table))); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// AppendYearRow appends one yearly aggregate, creating the table when missing.
func (s *Store) AppendYearRow(ctx context.Context, table string, row model.YearAggregate) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(createYearTable, quoteIdent(table))); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (scenario_id, heating_kwh, cooling_kwh, electricity_kwh, cost_eur) VALUES (?, ?, ?, ?, ?)", quoteIdent(table)),
		int64(row.ScenarioID), row.HeatingKWh, row.CoolingKWh, row.ElectricityKWh, row.CostEUR,
	)
	if err != nil {
		return fmt.Errorf("append year row to %s: %w", table, err)
	}
	return nil
}

// AppendMonthRows appends twelve monthly aggregates in one transaction,
// creating the table when missing.
func (s *Store) AppendMonthRows(ctx context.Context, table string, rows []model.MonthAggregate) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(createMonthTable, quoteIdent(table))); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (scenario_id, month, heating_kwh, cooling_kwh, electricity_kwh, cost_eur) VALUES (?, ?, ?, ?, ?, ?)", quoteIdent(table)))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, int64(r.ScenarioID), r.Month, r.HeatingKWh, r.CoolingKWh, r.ElectricityKWh, r.CostEUR); err != nil {
			return fmt.Errorf("append month row to %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit month rows: %w", err)
	}
	return nil
}

// LatestScenarioID returns the scenario id of the last appended row of the
// named table. Rows are appended in ascending order, so the physically last
// row is authoritative. The second return value is false when the table does
// not exist or is empty.
func (s *Store) LatestScenarioID(ctx context.Context, table string) (model.ScenarioID, bool, error) {
	ok, err := s.HasTable(ctx, table)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	var id int64
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT scenario_id FROM %s ORDER BY rowid DESC LIMIT 1", quoteIdent(table)),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("latest scenario id of %s: %w", table, err)
	}
	return model.ScenarioID(id), true, nil
}

// DeleteFromScenario bulk-deletes all rows of table whose scenario id is >= id.
func (s *Store) DeleteFromScenario(ctx context.Context, table string, id model.ScenarioID) error {
	ok, err := s.HasTable(ctx, table)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE scenario_id >= ?", quoteIdent(table)), int64(id),
	); err != nil {
		return fmt.Errorf("delete rows >= %d from %s: %w", id, table, err)
	}
	return nil
}

// RestrictResults drops all rows of table whose scenario id falls outside
// [lo, hi]. Absent tables are a no-op.
func (s *Store) RestrictResults(ctx context.Context, table string, lo, hi model.ScenarioID) error {
	ok, err := s.HasTable(ctx, table)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE scenario_id < ? OR scenario_id > ?", quoteIdent(table)),
		int64(lo), int64(hi),
	); err != nil {
		return fmt.Errorf("restrict %s to [%d, %d]: %w", table, lo, hi, err)
	}
	return nil
}

// ResultScenarioIDs returns the scenario ids of the named result table in
// physical row order.
func (s *Store) ResultScenarioIDs(ctx context.Context, table string) ([]model.ScenarioID, error) {
	ok, err := s.HasTable(ctx, table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, table)
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT scenario_id FROM %s ORDER BY rowid", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("query result ids of %s: %w", table, err)
	}
	defer rows.Close()
	var ids []model.ScenarioID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan result id: %w", err)
		}
		ids = append(ids, model.ScenarioID(id))
	}
	return ids, rows.Err()
}
