package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/store"
	"go-sheet-analysis/internal/table"
	"go-sheet-analysis/pkg/utils"
)

// ExportResult represents the result of one export operation.
type ExportResult struct {
	Type       string    `json:"type"` // "file", "database"
	Path       string    `json:"path"` // file path or store key
	RowCount   int       `json:"row_count"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
}

// ExportTable writes the final table to the targets in spec: a CSV or JSON
// file, the run store, or both. With no spec (or an empty one) the table
// goes to a timestamped CSV under exports/.
func ExportTable(runID string, t *table.Table, spec *model.Export) []ExportResult {
	var results []ExportResult

	file := ""
	db := ""
	if spec != nil {
		file = spec.File
		db = spec.DB
	}
	if file == "" && db == "" {
		path, err := utils.NewOutputManager("exports").RunOutputPath(runID, "result.csv")
		if err != nil {
			zap.S().Errorw("❌ export failed", "run", runID, "error", err)
			return []ExportResult{{Type: "file", Success: false, Error: err.Error(), ExportedAt: time.Now()}}
		}
		file = path
	}

	if file != "" {
		results = append(results, exportToFile(t, file))
	}
	if db != "" {
		results = append(results, exportToStore(runID, t))
	}
	for _, res := range results {
		if res.Success {
			zap.S().Infow("💾 export completed", "run", runID, "type", res.Type, "path", res.Path, "rows", res.RowCount)
		} else {
			zap.S().Errorw("❌ export failed", "run", runID, "type", res.Type, "path", res.Path, "error", res.Error)
		}
	}
	return results
}

// exportToFile picks the format from the extension: .json gets a column/row
// document, everything else is CSV.
func exportToFile(t *table.Table, path string) ExportResult {
	result := ExportResult{Type: "file", Path: path, ExportedAt: time.Now()}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			result.Error = fmt.Sprintf("failed to create directory: %v", err)
			return result
		}
	}
	file, err := os.Create(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create file: %v", err)
		return result
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.NewEncoder(file).Encode(TablePreview(t, t.NumRows()))
	default:
		err = t.WriteCSV(file)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.RowCount = t.NumRows()
	result.Success = true
	return result
}

func exportToStore(runID string, t *table.Table) ExportResult {
	result := ExportResult{Type: "database", Path: runID, ExportedAt: time.Now()}

	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		result.Error = err.Error()
		return result
	}
	if err := store.SaveRunResult(runID, buf.String(), t.NumRows(), len(t.Columns())); err != nil {
		result.Error = err.Error()
		return result
	}
	result.RowCount = t.NumRows()
	result.Success = true
	return result
}

// Preview is the JSON shape of a result table: ordered columns and stringly
// rows, plus the full row count when the preview is truncated.
type Preview struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	RowCount int        `json:"rowCount"`
}

// TablePreview renders up to limit rows of t for JSON responses.
func TablePreview(t *table.Table, limit int) Preview {
	names := t.Columns()
	p := Preview{Columns: names, RowCount: t.NumRows()}
	n := t.NumRows()
	if limit < n {
		n = limit
	}
	for r := 0; r < n; r++ {
		row := make([]string, len(names))
		for i, name := range names {
			v, _ := t.At(r, name)
			row[i] = v.String()
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}
