package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-sheet-analysis/internal/table"
)

func nums(vals ...float64) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		out[i] = table.Number(v)
	}
	return out
}

func texts(vals ...string) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		out[i] = table.Text(v)
	}
	return out
}

func mustTable(t *testing.T, names []string, cols ...[]table.Value) *table.Table {
	t.Helper()
	tbl, err := table.Build(names, cols...)
	require.NoError(t, err)
	return tbl
}

// baseTable is the fixture used across step tests:
// id=[1,2,3], val=[10,20,30].
func baseTable(t *testing.T) *table.Table {
	t.Helper()
	return mustTable(t, []string{"id", "val"}, nums(1, 2, 3), nums(10, 20, 30))
}
