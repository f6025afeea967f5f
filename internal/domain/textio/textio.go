// Package textio reads and writes the plain-text and CSV files the text
// tools operate on.
package textio

import (
	"encoding/csv"
	"fmt"
	"os"

	"sigkit/internal/domain/paths"
)

// ReadTxt returns the file contents as a string.
func ReadTxt(path string) (string, error) {
	if err := paths.CheckSuffix(path, ".txt"); err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteTxt writes content to path under the overwrite discipline.
func WriteTxt(path, content string, overwrite bool) error {
	if err := paths.CheckSuffix(path, ".txt"); err != nil {
		return err
	}
	if err := paths.EnsureWritable(path, overwrite); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Table is a header row plus data rows, the working shape for CSV
// instruction inputs.
type Table struct {
	Header []string
	Rows   [][]string
}

// Records converts each row into a column-name -> value map.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

// ReadCSV parses a CSV file with a header row.
func ReadCSV(path string) (Table, error) {
	if err := paths.CheckSuffix(path, ".csv"); err != nil {
		return Table{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("read %s: missing header row", path)
	}
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// WriteCSV serializes a table under the overwrite discipline.
func WriteCSV(path string, table Table, overwrite bool) error {
	if err := paths.CheckSuffix(path, ".csv"); err != nil {
		return err
	}
	if err := paths.EnsureWritable(path, overwrite); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Header); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
