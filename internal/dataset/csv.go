// Package dataset loads test case tables from CSV files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/microsoft/modelbench/internal/models"
	"github.com/microsoft/modelbench/internal/template"
)

// Reserved columns map onto test case fields. Every other column is
// available to prompt templates as {{.Vars.<column>}}.
const (
	ColumnID             = "id"
	ColumnName           = "name"
	ColumnCategory       = "category"
	ColumnPrompt         = "prompt"
	ColumnExpectedOutput = "expected_output"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return rows, nil
}

// ReadCSV reads rows from r. Header names are trimmed and lower-cased.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty (no header row)")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Range selects rows [start, end] (1-based, inclusive) where row 1 is the
// first data row. end is clamped to the available rows; end 0 means all.
func Range(rows []Row, start, end int) ([]Row, error) {
	if start == 0 && end == 0 {
		return rows, nil
	}
	if start < 1 {
		return nil, fmt.Errorf("csv: range start must be >= 1, got %d", start)
	}
	if end == 0 {
		end = len(rows)
	}
	if end < start {
		return nil, fmt.Errorf("csv: range end (%d) must be >= start (%d)", end, start)
	}

	if end > len(rows) {
		end = len(rows)
	}
	if start > len(rows) {
		return []Row{}, nil
	}

	return rows[start-1 : end], nil
}

// TestCases converts rows into test cases. Prompt and expected output are
// rendered as templates over the row's extra columns. A row without an id
// gets "<benchmark>-<row>".
func TestCases(benchmark string, rows []Row) ([]models.TestCase, error) {
	out := make([]models.TestCase, 0, len(rows))
	for i, row := range rows {
		tc := models.TestCase{
			ID:       strings.TrimSpace(row[ColumnID]),
			Name:     strings.TrimSpace(row[ColumnName]),
			Category: models.Category(strings.TrimSpace(row[ColumnCategory])),
		}
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("%s-%d", benchmark, i+1)
		}

		ctx := &template.Context{
			Benchmark:  benchmark,
			TestCaseID: tc.ID,
			Row:        i + 1,
			Vars:       extraColumns(row),
		}

		var err error
		if tc.Prompt, err = ctx.RenderField(ColumnPrompt, row[ColumnPrompt]); err != nil {
			return nil, err
		}
		if strings.TrimSpace(tc.Prompt) == "" {
			return nil, fmt.Errorf("row %d has no prompt", i+1)
		}
		if tc.ExpectedOutput, err = ctx.RenderField(ColumnExpectedOutput, row[ColumnExpectedOutput]); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, nil
}

func extraColumns(row Row) map[string]string {
	vars := make(map[string]string, len(row))
	for k, v := range row {
		switch k {
		case ColumnID, ColumnName, ColumnCategory, ColumnPrompt, ColumnExpectedOutput:
		default:
			vars[k] = v
		}
	}
	return vars
}
