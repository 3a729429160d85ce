package collect

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/project"
)

// writeHourly writes one scenario's hourly profile as a gzip CSV artifact.
// A non-empty whitelist restricts the written variables, preserving
// canonical order.
func writeHourly(dir, prefix string, res *model.ResultModel, whitelist []string) error {
	vars := res.Variables()
	if len(whitelist) > 0 {
		allowed := make(map[string]bool, len(whitelist))
		for _, name := range whitelist {
			allowed[name] = true
		}
		filtered := vars[:0]
		for _, v := range vars {
			if allowed[v.Name] {
				filtered = append(filtered, v)
			}
		}
		vars = filtered
	}
	if len(vars) == 0 {
		return fmt.Errorf("hourly whitelist selects no variables")
	}

	path := filepath.Join(dir, project.HourlyArtifactName(prefix, res.ScenarioID))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	cw := csv.NewWriter(zw)

	header := make([]string, 0, len(vars)+1)
	header = append(header, "hour")
	for _, v := range vars {
		header = append(header, v.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(header))
	for h := 0; h < model.HoursPerYear; h++ {
		rec[0] = strconv.Itoa(h)
		for i, v := range vars {
			rec[i+1] = strconv.FormatFloat(v.Values[h], 'f', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return file.Close()
}
