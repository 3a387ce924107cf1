package table

import "fmt"

// ColumnNotFoundError reports a reference to a column a table does not have.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// Table is an in-memory tabular dataset: ordered, uniquely named columns of
// equal length. Tables are immutable — every operation returns a new Table
// and never touches the receiver.
type Table struct {
	names []string
	cols  map[string][]Value
	rows  int
}

// Build creates a table from ordered column names and their values. All
// columns must have the same length and names must be unique.
func Build(names []string, columns ...[]Value) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("got %d names for %d columns", len(names), len(columns))
	}
	t := &Table{cols: make(map[string][]Value, len(names))}
	for i, name := range names {
		if _, dup := t.cols[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		if i == 0 {
			t.rows = len(columns[i])
		} else if len(columns[i]) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", name, len(columns[i]), t.rows)
		}
		t.names = append(t.names, name)
		t.cols[name] = append([]Value(nil), columns[i]...)
	}
	return t, nil
}

func (t *Table) NumRows() int { return t.rows }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]Value, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	return append([]Value(nil), col...), nil
}

// At reads a single cell.
func (t *Table) At(row int, name string) (Value, error) {
	col, ok := t.cols[name]
	if !ok {
		return Value{}, &ColumnNotFoundError{Column: name}
	}
	if row < 0 || row >= t.rows {
		return Value{}, fmt.Errorf("row %d out of range (%d rows)", row, t.rows)
	}
	return col[row], nil
}

// Select keeps only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{cols: make(map[string][]Value, len(names)), rows: t.rows}
	for _, name := range names {
		col, ok := t.cols[name]
		if !ok {
			return nil, &ColumnNotFoundError{Column: name}
		}
		if _, dup := out.cols[name]; dup {
			continue
		}
		out.names = append(out.names, name)
		out.cols[name] = append([]Value(nil), col...)
	}
	return out, nil
}

// Drop removes the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	dropped := make(map[string]bool, len(names))
	for _, name := range names {
		dropped[name] = true
	}
	out := &Table{cols: make(map[string][]Value), rows: t.rows}
	for _, name := range t.names {
		if dropped[name] {
			continue
		}
		out.names = append(out.names, name)
		out.cols[name] = append([]Value(nil), t.cols[name]...)
	}
	return out
}

// Filter keeps the rows where mask is true. The mask must align with the
// table's rows.
func (t *Table) Filter(mask []bool) (*Table, error) {
	if len(mask) != t.rows {
		return nil, fmt.Errorf("mask has %d entries for %d rows", len(mask), t.rows)
	}
	out := &Table{cols: make(map[string][]Value, len(t.names))}
	for _, keep := range mask {
		if keep {
			out.rows++
		}
	}
	for _, name := range t.names {
		src := t.cols[name]
		dst := make([]Value, 0, out.rows)
		for i, keep := range mask {
			if keep {
				dst = append(dst, src[i])
			}
		}
		out.names = append(out.names, name)
		out.cols[name] = dst
	}
	return out, nil
}

// WithColumn returns a table with the named column set to values, replacing
// it in place if it exists or appending it at the end.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if len(values) != t.rows {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), t.rows)
	}
	out := t.Clone()
	if !out.HasColumn(name) {
		out.names = append(out.names, name)
	}
	out.cols[name] = append([]Value(nil), values...)
	return out, nil
}

// Rename changes a column's name, keeping its position.
func (t *Table) Rename(from, to string) (*Table, error) {
	if !t.HasColumn(from) {
		return nil, &ColumnNotFoundError{Column: from}
	}
	if from == to {
		return t.Clone(), nil
	}
	if t.HasColumn(to) {
		return nil, fmt.Errorf("cannot rename %q to %q: column exists", from, to)
	}
	out := &Table{cols: make(map[string][]Value, len(t.names)), rows: t.rows}
	for _, name := range t.names {
		col := append([]Value(nil), t.cols[name]...)
		if name == from {
			name = to
		}
		out.names = append(out.names, name)
		out.cols[name] = col
	}
	return out, nil
}

// LeftJoin matches leftOn in t against rightOn in right and appends every
// other column of right. Unmatched left rows get nulls. Duplicate right keys
// fan out: a left row is repeated once per match, so the result can have more
// rows than t. Appended names that collide with t's get a "_right" suffix.
func (t *Table) LeftJoin(right *Table, leftOn, rightOn string) (*Table, error) {
	leftKeys, ok := t.cols[leftOn]
	if !ok {
		return nil, &ColumnNotFoundError{Column: leftOn}
	}
	rightKeys, ok := right.cols[rightOn]
	if !ok {
		return nil, &ColumnNotFoundError{Column: rightOn}
	}

	index := make(map[string][]int, right.rows)
	for i, key := range rightKeys {
		if key.IsNull() {
			continue
		}
		k := joinKey(key)
		index[k] = append(index[k], i)
	}

	// One entry per output row: the left row index and the matched right row
	// (-1 for no match).
	var leftIdx, rightIdx []int
	for i, key := range leftKeys {
		matches := index[joinKey(key)]
		if key.IsNull() || len(matches) == 0 {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, -1)
			continue
		}
		for _, m := range matches {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, m)
		}
	}

	out := &Table{cols: make(map[string][]Value), rows: len(leftIdx)}
	for _, name := range t.names {
		src := t.cols[name]
		dst := make([]Value, len(leftIdx))
		for i, li := range leftIdx {
			dst[i] = src[li]
		}
		out.names = append(out.names, name)
		out.cols[name] = dst
	}
	for _, name := range right.names {
		if name == rightOn {
			continue
		}
		src := right.cols[name]
		dst := make([]Value, len(rightIdx))
		for i, ri := range rightIdx {
			if ri < 0 {
				dst[i] = Null()
			} else {
				dst[i] = src[ri]
			}
		}
		outName := name
		if out.HasColumn(outName) {
			outName += "_right"
		}
		out.names = append(out.names, outName)
		out.cols[outName] = dst
	}
	return out, nil
}

// joinKey builds the match key for a cell. Kind is part of the key, so the
// number 1 and the text "1" never match each other.
func joinKey(v Value) string {
	if v.Kind() == KindText {
		return "t:" + v.String()
	}
	return "n:" + v.String()
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		names: append([]string(nil), t.names...),
		cols:  make(map[string][]Value, len(t.names)),
		rows:  t.rows,
	}
	for name, col := range t.cols {
		out.cols[name] = append([]Value(nil), col...)
	}
	return out
}

// Equal reports structural equality: same columns in the same order with
// equal values.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.names) != len(o.names) {
		return false
	}
	for i, name := range t.names {
		if o.names[i] != name {
			return false
		}
		a, b := t.cols[name], o.cols[name]
		for r := 0; r < t.rows; r++ {
			if !a[r].Equal(b[r]) {
				return false
			}
		}
	}
	return true
}
