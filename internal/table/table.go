// Package table provides the tabular data structures the pipeline steps
// exchange, plus XLSX/CSV read and write adapters for them.
package table

import "github.com/shopspring/decimal"

// RawTable holds rows loaded from one source file, with whatever column
// headers that file happened to use. All cells are strings.
type RawTable struct {
	Source  string // originating file name, for diagnostics
	Headers []string
	Rows    [][]string
}

// Row is one normalized row. Cells holds every canonical column as text;
// Amounts holds the coerced values of the numeric columns.
type Row struct {
	Cells   map[string]string
	Amounts map[string]decimal.Decimal
}

// Amount returns the coerced value of a numeric column, or zero.
func (r Row) Amount(column string) decimal.Decimal {
	return r.Amounts[column]
}

// NormalizedTable is a table whose columns exactly match a canonical schema.
type NormalizedTable struct {
	Source  string
	Columns []string
	Rows    []Row
}
