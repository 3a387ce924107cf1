package pipeline

import (
	"fmt"

	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/table"
)

// Apply evaluates a single step against t and returns the transformed table.
// It never mutates t. The registry is only consulted by LOOKUP steps.
//
// CONDITIONAL_AGGREGATE failures come back wrapped in DegradedError together
// with the unchanged input table; every other failure aborts the step with a
// nil table.
func Apply(t *table.Table, def model.StepDefinition, reg table.Registry) (*table.Table, error) {
	if def.OutputName == "" {
		return nil, &ValidationError{Field: "outputName", Reason: "is required"}
	}
	switch def.OperationType {
	case model.OpLookup:
		return applyLookup(t, def, reg)
	case model.OpArithmetic:
		return applyArithmetic(t, def)
	case model.OpConditional:
		return applyConditional(t, def)
	case model.OpConditionalAggregate:
		return applyConditionalAggregate(t, def)
	default:
		return nil, &ValidationError{
			Field:  "operationType",
			Reason: fmt.Sprintf("%q is not implemented", def.OperationType),
		}
	}
}

// applyLookup is the VLOOKUP equivalent: a left join of t against the
// registered lookup table, importing valueCol under the step's output name.
// Unmatched rows get nulls. Duplicate keys in the lookup table fan out
// left rows, standard left-join multiplicity.
func applyLookup(t *table.Table, def model.StepDefinition, reg table.Registry) (*table.Table, error) {
	lookup, ok := reg.Table(def.LookupTable)
	if !ok {
		return nil, &TableNotFoundError{Name: def.LookupTable}
	}
	if !t.HasColumn(def.LeftKeyCol) {
		return nil, &table.ColumnNotFoundError{Column: def.LeftKeyCol}
	}
	if def.ValueCol == def.RightKeyCol {
		return nil, &ValidationError{Field: "valueCol", Reason: "must differ from rightKeyCol"}
	}

	sub, err := lookup.Select(def.RightKeyCol, def.ValueCol)
	if err != nil {
		return nil, err
	}
	if def.OutputName != def.ValueCol {
		sub, err = sub.Rename(def.ValueCol, def.OutputName)
		if err != nil {
			return nil, err
		}
	}

	// Importing under an existing name overwrites that column.
	left := t
	if left.HasColumn(def.OutputName) && def.OutputName != def.LeftKeyCol {
		left = left.Drop(def.OutputName)
	}
	return left.LeftJoin(sub, def.LeftKeyCol, def.RightKeyCol)
}

// applyArithmetic computes firstCol <op> secondCol element-wise. Cells that
// cannot be read as numbers make the result cell null rather than failing
// the step; division by zero also yields null (decision recorded in
// DESIGN.md instead of IEEE Inf/NaN, which would leak into CSV output).
func applyArithmetic(t *table.Table, def model.StepDefinition) (*table.Table, error) {
	switch def.Operator {
	case "+", "-", "*", "/":
	default:
		return nil, &UnsupportedOperatorError{Operator: def.Operator}
	}
	first, err := t.Column(def.FirstCol)
	if err != nil {
		return nil, err
	}
	second, err := t.Column(def.SecondCol)
	if err != nil {
		return nil, err
	}

	out := make([]table.Value, len(first))
	for i := range first {
		a, aok := first[i].Float()
		b, bok := second[i].Float()
		if !aok || !bok {
			out[i] = table.Null()
			continue
		}
		var f float64
		switch def.Operator {
		case "+":
			f = a + b
		case "-":
			f = a - b
		case "*":
			f = a * b
		case "/":
			if b == 0 {
				out[i] = table.Null()
				continue
			}
			f = a / b
		}
		out[i] = table.Number(f)
	}
	return t.WithColumn(def.OutputName, out)
}

// applyConditional is the IF step: per row, valueIfTrue where the condition
// holds, valueIfFalse otherwise. Both branches are coerced literals, so the
// output column may mix numbers and text.
func applyConditional(t *table.Table, def model.StepDefinition) (*table.Table, error) {
	mask, err := buildCondition(t, def)
	if err != nil {
		return nil, err
	}
	trueVal := table.Coerce(def.ValueIfTrue)
	falseVal := table.Coerce(def.ValueIfFalse)

	out := make([]table.Value, len(mask))
	for i, hit := range mask {
		if hit {
			out[i] = trueVal
		} else {
			out[i] = falseVal
		}
	}
	return t.WithColumn(def.OutputName, out)
}
