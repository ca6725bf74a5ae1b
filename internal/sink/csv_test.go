package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testTable() Table {
	return Table{
		Name: "dim_sample",
		Columns: []Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "name", Type: "TEXT"},
			{Name: "amount", Type: "NUMERIC(12,2)"},
			{Name: "day", Type: "DATE"},
			{Name: "at", Type: "TIMESTAMP"},
			{Name: "flag", Type: "BOOLEAN"},
		},
		Rows: [][]any{
			{1, "alpha", decimal.RequireFromString("9.99"),
				time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, time.March, 1, 20, 15, 0, 0, time.UTC), true},
			{2, nil, nil, nil, nil, false},
		},
	}
}

func TestCSVWriterWriteTable(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	if err := w.WriteTable(context.Background(), testTable()); err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dim_sample.csv"))
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	want := "id,name,amount,day,at,flag\n" +
		"1,alpha,9.99,2024-03-01,2024-03-01 20:15:00,true\n" +
		"2,,,,,false\n"
	if string(data) != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", data, want)
	}
}

func TestCSVWriterOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)
	ctx := context.Background()

	table := testTable()
	if err := w.WriteTable(ctx, table); err != nil {
		t.Fatalf("First write returned error: %v", err)
	}

	table.Rows = table.Rows[:1]
	if err := w.WriteTable(ctx, table); err != nil {
		t.Fatalf("Second write returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dim_sample.csv"))
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	want := "id,name,amount,day,at,flag\n" +
		"1,alpha,9.99,2024-03-01,2024-03-01 20:15:00,true\n"
	if string(data) != want {
		t.Errorf("Expected full overwrite, got:\n%s", data)
	}
}

func TestCSVWriterLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	if err := w.WriteTable(context.Background(), testTable()); err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "dim_sample.csv" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only dim_sample.csv, got %v", names)
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL(testTable())
	want := "CREATE TABLE dim_sample (\n" +
		"    id INTEGER,\n" +
		"    name TEXT,\n" +
		"    amount NUMERIC(12,2),\n" +
		"    day DATE,\n" +
		"    at TIMESTAMP,\n" +
		"    flag BOOLEAN\n" +
		")"
	if sql != want {
		t.Errorf("Unexpected DDL:\n%s\nwant:\n%s", sql, want)
	}
}
