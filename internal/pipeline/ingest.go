package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/table"
)

// ------------------- Ingestion -------------------

// LoadSources reads every source into a table and returns the registry the
// run will use, keyed by source name. This is the workbook-loading seam:
// spreadsheet parsing proper lives outside the engine, CSV and JSON stand in
// for it here.
func LoadSources(ctx context.Context, sources []model.Source) (table.Registry, error) {
	reg := make(table.Registry, len(sources))
	for _, src := range sources {
		name := src.Name
		if name == "" {
			base := filepath.Base(src.URL)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		if _, dup := reg[name]; dup {
			return nil, fmt.Errorf("duplicate source name %q", name)
		}

		t, err := loadSource(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("failed to load source %q: %w", name, err)
		}
		zap.S().Infow("📄 source loaded", "name", name, "rows", t.NumRows(), "columns", len(t.Columns()))
		reg[name] = t
	}
	return reg, nil
}

func loadSource(ctx context.Context, src model.Source) (*table.Table, error) {
	reader, closeFn, err := openSource(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	switch strings.ToLower(src.Type) {
	case "csv", "":
		return table.ReadCSV(reader)
	case "json":
		return readJSON(reader)
	default:
		return nil, fmt.Errorf("unknown source type: %s", src.Type)
	}
}

func openSource(ctx context.Context, pathOrURL string) (io.Reader, func(), error) {
	if strings.HasPrefix(pathOrURL, "http") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return nil, nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to GET source: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, nil, fmt.Errorf("GET %s: unexpected status %s", pathOrURL, resp.Status)
		}
		return resp.Body, func() { resp.Body.Close() }, nil
	}
	file, err := os.Open(pathOrURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source file: %w", err)
	}
	return file, func() { file.Close() }, nil
}

// readJSON builds a table from a JSON array of flat objects. Columns are the
// union of all keys, sorted for a stable order; objects missing a key get a
// null in that column.
func readJSON(r io.Reader) (*table.Table, error) {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON body: %w", err)
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &records); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	keySet := make(map[string]bool)
	for _, rec := range records {
		for key := range rec {
			keySet[key] = true
		}
	}
	names := make([]string, 0, len(keySet))
	for key := range keySet {
		names = append(names, key)
	}
	sort.Strings(names)

	columns := make([][]table.Value, len(names))
	for i, name := range names {
		columns[i] = make([]table.Value, len(records))
		for r, rec := range records {
			columns[i][r] = jsonValue(rec[name])
		}
	}
	return table.Build(names, columns...)
}

func jsonValue(v interface{}) table.Value {
	switch val := v.(type) {
	case nil:
		return table.Null()
	case string:
		return table.Text(val)
	case float64:
		return table.Number(val)
	case bool:
		if val {
			return table.Text("true")
		}
		return table.Text("false")
	default:
		return table.Coerce(fmt.Sprintf("%v", val))
	}
}
