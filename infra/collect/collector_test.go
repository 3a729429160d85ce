package collect

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/project"
)

type memStore struct {
	years  map[string][]model.YearAggregate
	months map[string][]model.MonthAggregate
}

func newMemStore() *memStore {
	return &memStore{
		years:  map[string][]model.YearAggregate{},
		months: map[string][]model.MonthAggregate{},
	}
}

func (m *memStore) AppendYearRow(_ context.Context, table string, row model.YearAggregate) error {
	m.years[table] = append(m.years[table], row)
	return nil
}

func (m *memStore) AppendMonthRows(_ context.Context, table string, rows []model.MonthAggregate) error {
	m.months[table] = append(m.months[table], rows...)
	return nil
}

func testResult(id model.ScenarioID) *model.ResultModel {
	series := func(v float64) []float64 {
		s := make([]float64, model.HoursPerYear)
		for i := range s {
			s[i] = v
		}
		return s
	}
	return &model.ResultModel{
		ScenarioID:    id,
		HeatingKW:     series(2),
		CoolingKW:     series(0),
		ElectricityKW: series(1),
		IndoorTempC:   series(20),
		CostEUR:       series(0.2),
	}
}

func TestPersistYearAndMonth(t *testing.T) {
	st := newMemStore()
	c := NewRef(st, t.TempDir())
	flags := model.Flags{SaveYear: true, SaveMonth: true}

	if err := c.Persist(context.Background(), testResult(4), flags); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if got := st.years[project.TableRefYear]; len(got) != 1 || got[0].ScenarioID != 4 {
		t.Fatalf("year rows = %v", got)
	}
	if got := st.months[project.TableRefMonth]; len(got) != 12 {
		t.Fatalf("month rows = %d", len(got))
	}
	if len(st.years[project.TableOptYear]) != 0 {
		t.Fatal("ref collector wrote opt table")
	}
}

func TestPersistHourlyArtifact(t *testing.T) {
	dir := t.TempDir()
	c := NewOpt(newMemStore(), dir)
	flags := model.Flags{SaveHour: true}

	if err := c.Persist(context.Background(), testResult(7), flags); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	path := filepath.Join(dir, project.HourlyArtifactName(project.ArtifactOptHourly, 7))
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	recs, err := csv.NewReader(zr).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(recs) != model.HoursPerYear+1 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0][0] != "hour" || recs[0][1] != model.VarHeating {
		t.Fatalf("header = %v", recs[0])
	}
}

func TestPersistHourlyWhitelist(t *testing.T) {
	dir := t.TempDir()
	c := NewRef(newMemStore(), dir)
	flags := model.Flags{SaveHour: true, HourVars: []string{model.VarElectricity, model.VarCost}}

	if err := c.Persist(context.Background(), testResult(2), flags); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	path := filepath.Join(dir, project.HourlyArtifactName(project.ArtifactRefHourly, 2))
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	recs, err := csv.NewReader(zr).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	want := []string{"hour", model.VarElectricity, model.VarCost}
	if len(recs[0]) != len(want) {
		t.Fatalf("header = %v", recs[0])
	}
	for i, h := range want {
		if recs[0][i] != h {
			t.Fatalf("header = %v, want %v", recs[0], want)
		}
	}
}

func TestPersistWhitelistSelectsNothing(t *testing.T) {
	c := NewRef(newMemStore(), t.TempDir())
	flags := model.Flags{SaveHour: true, HourVars: []string{"no_such_var"}}
	if err := c.Persist(context.Background(), testResult(1), flags); err == nil {
		t.Fatal("expected error for empty whitelist selection")
	}
}
