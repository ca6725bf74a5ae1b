package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dicehub/dice-warehouse/internal/logging"
)

// PGWriter loads each table into PostgreSQL. The table is dropped and
// recreated inside a single transaction, so readers never observe a
// partially loaded table.
type PGWriter struct {
	pool *pgxpool.Pool
}

// NewPGWriter creates a PostgreSQL writer on the given pool.
func NewPGWriter(pool *pgxpool.Pool) *PGWriter {
	return &PGWriter{pool: pool}
}

// WriteTable replaces the table and bulk-loads all rows via COPY.
func (w *PGWriter) WriteTable(ctx context.Context, table Table) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", table.Name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table.Name)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table.Name, err)
	}
	if _, err := tx.Exec(ctx, createTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create %s: %w", table.Name, err)
	}

	columns := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = col.Name
	}

	rows := make([][]any, len(table.Rows))
	for i, row := range table.Rows {
		converted := make([]any, len(row))
		for j, v := range row {
			// pgx has no native encoder for decimal.Decimal; the text
			// form binds cleanly to NUMERIC.
			if d, ok := v.(decimal.Decimal); ok {
				converted[j] = d.String()
			} else {
				converted[j] = v
			}
		}
		rows[i] = converted
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table.Name}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", table.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table.Name, err)
	}

	logging.Debug().
		Str("table", table.Name).
		Int64("rows", n).
		Msg("Loaded table into PostgreSQL")

	return nil
}

func createTableSQL(table Table) string {
	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		defs[i] = fmt.Sprintf("%s %s", col.Name, col.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", table.Name, strings.Join(defs, ",\n    "))
}
