// Package sink defines the output table descriptor and the writers that
// persist warehouse tables to CSV files or PostgreSQL.
package sink

import "context"

// Column describes one output column. Type is the PostgreSQL column type,
// also used to pick the CSV rendering for dates vs timestamps.
type Column struct {
	Name string
	Type string
}

// Table is a fully materialized output table. Row values use nil for absent
// values; supported value types are string, int, int64, float64, bool,
// time.Time and decimal.Decimal.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Writer persists one table. A table is written either fully or not at all;
// partial-table writes are not an acceptable failure mode.
type Writer interface {
	WriteTable(ctx context.Context, table Table) error
}
