package table

import "strconv"

// Kind discriminates the variants a cell can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

// Value is a single cell: a null, a 64-bit float or a string. Spreadsheet
// inputs are loosely typed, so columns may mix kinds freely.
type Value struct {
	kind Kind
	num  float64
	text string
}

func Null() Value            { return Value{kind: KindNull} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Text(s string) Value    { return Value{kind: KindText, text: s} }

// Coerce turns raw user or file input into a Value: numeric if it parses as a
// 64-bit float, otherwise kept as text. Every step kind coerces through here
// so literals behave the same everywhere.
func Coerce(s string) Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(s)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float reports the numeric form of the value. Text that parses as a float
// counts as numeric (best-effort cast, matching the loose typing of sheets).
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		if f, err := strconv.ParseFloat(v.text, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// String renders the value the way it is written to CSV: nulls become the
// empty string, numbers drop trailing zeros.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Equal is strict: kinds must match. Number(1) and Text("1") are not equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	default:
		return true
	}
}
