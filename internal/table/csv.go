package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV builds a table from CSV input. The first row is the header; header
// names are trimmed and stripped of quotes. Cells are coerced to numbers
// where they parse, empty cells become nulls.
func ReadCSV(r io.Reader) (*Table, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	names := make([]string, len(headers))
	for i, h := range headers {
		clean := strings.TrimSpace(h)
		clean = strings.ReplaceAll(clean, `"`, "")
		names[i] = clean
	}

	columns := make([][]Value, len(names))
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		for i := range names {
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				columns[i] = append(columns[i], Null())
			} else {
				columns[i] = append(columns[i], Coerce(cell))
			}
		}
	}

	return Build(names, columns...)
}

// WriteCSV writes the table as delimited text: header row first, column
// order preserved, nulls as empty cells.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(t.names); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(t.names))
	for r := 0; r < t.rows; r++ {
		for i, name := range t.names {
			row[i] = t.cols[name][r].String()
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
