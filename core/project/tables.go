package project

import "github.com/kfeurstein/flexion/core/model"

// Table names in the project database.
const (
	TableScenario = "scenario"
	TableRefYear  = "result_ref_year"
	TableOptYear  = "result_opt_year"
	TableRefMonth = "result_ref_month"
	TableOptMonth = "result_opt_month"
)

// ResultTables lists all result tables in canonical merge order.
func ResultTables() []string {
	return []string{TableRefYear, TableOptYear, TableRefMonth, TableOptMonth}
}

// EnabledResultTables returns, in merge order, the result tables the flag
// set will write to.
func EnabledResultTables(f model.Flags) []string {
	var tables []string
	if f.RunRef && f.SaveYear {
		tables = append(tables, TableRefYear)
	}
	if f.RunOpt && f.SaveYear {
		tables = append(tables, TableOptYear)
	}
	if f.RunRef && f.SaveMonth {
		tables = append(tables, TableRefMonth)
	}
	if f.RunOpt && f.SaveMonth {
		tables = append(tables, TableOptMonth)
	}
	return tables
}
