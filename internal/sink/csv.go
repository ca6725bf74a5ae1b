package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CSVWriter writes each table to <dir>/<table>.csv. Writes go through a
// temporary file renamed into place, so a rerun either fully replaces a
// table or leaves the previous version intact.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a CSV writer rooted at dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteTable writes the table with a header row, no index column.
func (w *CSVWriter) WriteTable(ctx context.Context, table Table) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create warehouse directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, table.Name+".csv.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", table.Name, err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header for %s: %w", table.Name, err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, v := range row {
			record[i] = formatValue(table.Columns[i], v)
		}
		if err := cw.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row for %s: %w", table.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush %s: %w", table.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", table.Name, err)
	}

	dest := filepath.Join(w.dir, table.Name+".csv")
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	return nil
}

// formatValue renders a single cell. Absent values render as empty strings.
func formatValue(col Column, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if col.Type == "DATE" {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	case decimal.Decimal:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
