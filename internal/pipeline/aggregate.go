package pipeline

import (
	"fmt"

	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/table"
)

// applyConditionalAggregate is the SUMIF/COUNTIF/AVERAGEIF/MINIF/MAXIF step:
// filter rows by the condition, reduce calcCol over the filtered rows and
// place the scalar either broadcast into outputName or into a 1-based row
// range of a target column.
//
// Unlike the other step kinds this one never aborts the run: any failure is
// wrapped in DegradedError and the input table is handed back unchanged, so
// the runner can report it and keep going.
func applyConditionalAggregate(t *table.Table, def model.StepDefinition) (*table.Table, error) {
	out, err := evalConditionalAggregate(t, def)
	if err != nil {
		return t, &DegradedError{Err: err}
	}
	return out, nil
}

func evalConditionalAggregate(t *table.Table, def model.StepDefinition) (*table.Table, error) {
	fn := def.AggregateFunction
	switch fn {
	case model.AggCount:
	case model.AggSum, model.AggAverage, model.AggMin, model.AggMax:
		if def.CalcCol == "" {
			return nil, &ValidationError{Field: "calcCol", Reason: fmt.Sprintf("is required for %q", fn)}
		}
		if !t.HasColumn(def.CalcCol) {
			return nil, &table.ColumnNotFoundError{Column: def.CalcCol}
		}
	default:
		return nil, &ValidationError{Field: "aggregateFunction", Reason: fmt.Sprintf("%q is not supported", fn)}
	}

	mask, err := buildCondition(t, def)
	if err != nil {
		return nil, err
	}
	filtered, err := t.Filter(mask)
	if err != nil {
		return nil, err
	}

	// Empty filtered set aggregates to 0, not null.
	scalar := 0.0
	if filtered.NumRows() > 0 {
		if fn == model.AggCount {
			scalar = float64(filtered.NumRows())
		} else {
			col, err := filtered.Column(def.CalcCol)
			if err != nil {
				return nil, err
			}
			scalar = reduce(fn, col)
		}
	}
	return placeScalar(t, def, table.Number(scalar))
}

// reduce folds the numeric cells of col; non-numeric cells are skipped the
// way a sheet skips text in a SUMIF range. All-non-numeric input reduces
// to 0.
func reduce(fn string, col []table.Value) float64 {
	var sum, min, max float64
	count := 0
	for _, v := range col {
		f, ok := v.Float()
		if !ok {
			continue
		}
		if count == 0 || f < min {
			min = f
		}
		if count == 0 || f > max {
			max = f
		}
		sum += f
		count++
	}
	if count == 0 {
		return 0
	}
	switch fn {
	case model.AggSum:
		return sum
	case model.AggAverage:
		return sum / float64(count)
	case model.AggMin:
		return min
	case model.AggMax:
		return max
	}
	return 0
}

// placeScalar writes the aggregate into the table. With no start row the
// scalar is broadcast to every row of outputName. With one, only the rows in
// [outputStartRow, outputEndRow] (1-based, inclusive, end defaulting to
// start) are overwritten in the target column; rows outside keep their prior
// value, and the column is created all-null first if it does not exist yet.
func placeScalar(t *table.Table, def model.StepDefinition, result table.Value) (*table.Table, error) {
	if def.OutputStartRow == 0 {
		vals := make([]table.Value, t.NumRows())
		for i := range vals {
			vals[i] = result
		}
		return t.WithColumn(def.OutputName, vals)
	}

	startIdx := def.OutputStartRow - 1
	if startIdx < 0 || startIdx >= t.NumRows() {
		return nil, &RowRangeOutOfBoundsError{StartRow: def.OutputStartRow, NumRows: t.NumRows()}
	}
	endIdx := startIdx
	if def.OutputEndRow != 0 {
		endIdx = def.OutputEndRow - 1
	}
	if endIdx < startIdx {
		endIdx = startIdx
	}

	targetCol := def.OutputTargetCol
	if targetCol == "" {
		targetCol = def.OutputName
	}
	var vals []table.Value
	if t.HasColumn(targetCol) {
		vals, _ = t.Column(targetCol)
	} else {
		vals = make([]table.Value, t.NumRows())
		for i := range vals {
			vals[i] = table.Null()
		}
	}
	for i := startIdx; i <= endIdx && i < t.NumRows(); i++ {
		vals[i] = result
	}
	return t.WithColumn(targetCol, vals)
}
