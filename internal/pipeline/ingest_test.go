package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/table"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSourcesCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv", "id,amount\n1,10\n2,20\n")

	reg, err := LoadSources(context.Background(), []model.Source{
		{Name: "orders", Type: "csv", URL: path},
	})
	require.NoError(t, err)

	tbl, ok := reg.Table("orders")
	require.True(t, ok)
	assert.Equal(t, 2, tbl.NumRows())
	v, _ := tbl.At(1, "amount")
	assert.Equal(t, table.Number(20), v)
}

func TestLoadSourcesDefaultsNameFromURL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv", "id\n1\n")

	reg, err := LoadSources(context.Background(), []model.Source{
		{Type: "csv", URL: filepath.Join(dir, "customers.csv")},
	})
	require.NoError(t, err)
	_, ok := reg.Table("customers")
	assert.True(t, ok)
}

func TestLoadSourcesJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "refs.json", `[{"rid":1,"name":"a"},{"rid":2,"name":"b","extra":true}]`)

	reg, err := LoadSources(context.Background(), []model.Source{
		{Name: "refs", Type: "json", URL: path},
	})
	require.NoError(t, err)

	tbl, ok := reg.Table("refs")
	require.True(t, ok)
	// Union of keys, sorted; missing keys are null.
	assert.Equal(t, []string{"extra", "name", "rid"}, tbl.Columns())
	v, _ := tbl.At(0, "extra")
	assert.True(t, v.IsNull())
	v, _ = tbl.At(1, "extra")
	assert.Equal(t, table.Text("true"), v)
	v, _ = tbl.At(0, "rid")
	assert.Equal(t, table.Number(1), v)
}

func TestLoadSourcesErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.csv", "id\n1\n")

	_, err := LoadSources(context.Background(), []model.Source{
		{Name: "a", Type: "csv", URL: path},
		{Name: "a", Type: "csv", URL: path},
	})
	assert.Error(t, err)

	_, err = LoadSources(context.Background(), []model.Source{
		{Name: "b", Type: "parquet", URL: path},
	})
	assert.Error(t, err)

	_, err = LoadSources(context.Background(), []model.Source{
		{Name: "c", Type: "csv", URL: filepath.Join(dir, "nope.csv")},
	})
	assert.Error(t, err)
}
