package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nums(vals ...float64) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = Number(v)
	}
	return out
}

func texts(vals ...string) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = Text(v)
	}
	return out
}

func TestBuild(t *testing.T) {
	tbl, err := Build([]string{"id", "val"}, nums(1, 2, 3), nums(10, 20, 30))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"id", "val"}, tbl.Columns())

	_, err = Build([]string{"a", "a"}, nums(1), nums(2))
	assert.Error(t, err)

	_, err = Build([]string{"a", "b"}, nums(1, 2), nums(3))
	assert.Error(t, err)
}

func TestColumnNotFound(t *testing.T) {
	tbl, err := Build([]string{"id"}, nums(1))
	require.NoError(t, err)

	_, err = tbl.Column("missing")
	var cnf *ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
	assert.Equal(t, "missing", cnf.Column)
}

func TestSelect(t *testing.T) {
	tbl, err := Build([]string{"a", "b", "c"}, nums(1), nums(2), nums(3))
	require.NoError(t, err)

	sub, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sub.Columns())

	_, err = tbl.Select("a", "nope")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	tbl, err := Build([]string{"id", "val"}, nums(1, 2, 3), nums(10, 20, 30))
	require.NoError(t, err)

	out, err := tbl.Filter([]bool{false, true, true})
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
	v, err := out.At(0, "val")
	require.NoError(t, err)
	assert.Equal(t, Number(20), v)

	_, err = tbl.Filter([]bool{true})
	assert.Error(t, err)
}

func TestWithColumnReplacesInPlace(t *testing.T) {
	tbl, err := Build([]string{"a", "b"}, nums(1), nums(2))
	require.NoError(t, err)

	out, err := tbl.WithColumn("a", nums(9))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Columns())
	v, _ := out.At(0, "a")
	assert.Equal(t, Number(9), v)

	out, err = tbl.WithColumn("c", texts("x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out.Columns())

	_, err = tbl.WithColumn("c", nums(1, 2))
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	tbl, err := Build([]string{"a", "b"}, nums(1), nums(2))
	require.NoError(t, err)

	out, err := tbl.Rename("a", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "b"}, out.Columns())

	_, err = tbl.Rename("nope", "y")
	assert.Error(t, err)
	_, err = tbl.Rename("a", "b")
	assert.Error(t, err)
}

func TestLeftJoin(t *testing.T) {
	left, err := Build([]string{"id"}, nums(1, 2, 3))
	require.NoError(t, err)
	right, err := Build([]string{"rid", "name"}, nums(2, 3), texts("b", "c"))
	require.NoError(t, err)

	joined, err := left.LeftJoin(right, "id", "rid")
	require.NoError(t, err)
	assert.Equal(t, 3, joined.NumRows())
	assert.Equal(t, []string{"id", "name"}, joined.Columns())

	names, err := joined.Column("name")
	require.NoError(t, err)
	assert.Equal(t, []Value{Null(), Text("b"), Text("c")}, names)
}

func TestLeftJoinFanOut(t *testing.T) {
	left, err := Build([]string{"id"}, nums(1, 2))
	require.NoError(t, err)
	right, err := Build([]string{"rid", "tag"}, nums(2, 2), texts("x", "y"))
	require.NoError(t, err)

	joined, err := left.LeftJoin(right, "id", "rid")
	require.NoError(t, err)
	// Duplicate right keys duplicate the matching left row.
	assert.Equal(t, 3, joined.NumRows())
	ids, _ := joined.Column("id")
	assert.Equal(t, []Value{Number(1), Number(2), Number(2)}, ids)
	tags, _ := joined.Column("tag")
	assert.Equal(t, []Value{Null(), Text("x"), Text("y")}, tags)
}

func TestLeftJoinNullKeysNeverMatch(t *testing.T) {
	left, err := Build([]string{"id"}, []Value{Null(), Number(1)})
	require.NoError(t, err)
	right, err := Build([]string{"rid", "v"}, []Value{Null(), Number(1)}, texts("n", "one"))
	require.NoError(t, err)

	joined, err := left.LeftJoin(right, "id", "rid")
	require.NoError(t, err)
	vs, _ := joined.Column("v")
	assert.Equal(t, []Value{Null(), Text("one")}, vs)
}

func TestLeftJoinKindsDoNotCross(t *testing.T) {
	left, err := Build([]string{"id"}, []Value{Number(1)})
	require.NoError(t, err)
	right, err := Build([]string{"rid", "v"}, []Value{Text("1")}, texts("x"))
	require.NoError(t, err)

	joined, err := left.LeftJoin(right, "id", "rid")
	require.NoError(t, err)
	vs, _ := joined.Column("v")
	assert.Equal(t, []Value{Null()}, vs)
}

func TestLeftJoinCollisionSuffix(t *testing.T) {
	left, err := Build([]string{"id", "name"}, nums(1), texts("left"))
	require.NoError(t, err)
	right, err := Build([]string{"rid", "name"}, nums(1), texts("right"))
	require.NoError(t, err)

	joined, err := left.LeftJoin(right, "id", "rid")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "name_right"}, joined.Columns())
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	tbl, err := Build([]string{"id", "val"}, nums(1, 2), nums(10, 20))
	require.NoError(t, err)
	snapshot := tbl.Clone()

	_, err = tbl.WithColumn("val", nums(0, 0))
	require.NoError(t, err)
	_, err = tbl.Filter([]bool{true, false})
	require.NoError(t, err)
	_, err = tbl.Rename("val", "v2")
	require.NoError(t, err)
	_ = tbl.Drop("val")

	assert.True(t, tbl.Equal(snapshot))
}

func TestEqual(t *testing.T) {
	a, _ := Build([]string{"x"}, nums(1, 2))
	b, _ := Build([]string{"x"}, nums(1, 2))
	c, _ := Build([]string{"x"}, nums(1, 3))
	d, _ := Build([]string{"y"}, nums(1, 2))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestRegistry(t *testing.T) {
	tbl, _ := Build([]string{"x"}, nums(1))
	reg := Registry{"main": tbl}

	got, ok := reg.Table("main")
	assert.True(t, ok)
	assert.Same(t, tbl, got)

	_, ok = reg.Table("other")
	assert.False(t, ok)
	assert.Equal(t, []string{"main"}, reg.Names())
}
