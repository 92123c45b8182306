// Package csvio reads and writes the pipeline CSV files. Output keeps
// a logical, source-specific column order; columns that never produced
// a value are omitted from the file entirely rather than padded.
package csvio

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
)

var logger = log.New(os.Stdout, "csvio: ", log.LstdFlags|log.Lshortfile)

// Column is one ordered output column. Value returns the cell for row
// i and whether the row has a value for this column at all.
type Column struct {
	Name  string
	Value func(i int) (string, bool)
}

// WriteFile writes n rows of the given columns to path. A column is
// kept only if at least one row produced a value for it; kept columns
// render missing cells as empty strings.
func WriteFile(path string, n int, cols []Column) error {
	kept := make([]Column, 0, len(cols))
	for _, col := range cols {
		for i := 0; i < n; i++ {
			if _, ok := col.Value(i); ok {
				kept = append(kept, col)
				break
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, len(kept))
	for i, col := range kept {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < n; i++ {
		row := make([]string, len(kept))
		for j, col := range kept {
			if v, ok := col.Value(i); ok {
				row[j] = v
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	logger.Printf("Saved %d rows to %s", n, path)
	return nil
}

// ReadFile reads a CSV with a header row into column-keyed maps. Rows
// shorter than the header keep the missing cells absent from the map.
func ReadFile(path string) ([]map[string]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}
