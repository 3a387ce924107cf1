package pipeline

import (
	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/table"
)

// Comparison operators accepted in step conditions. "=" is accepted as an
// alias for "==".
const (
	opEq = "=="
	opNe = "!="
	opGt = ">"
	opLt = "<"
	opGe = ">="
	opLe = "<="
)

func normalizeComparator(op string) (string, error) {
	switch op {
	case "=", opEq:
		return opEq, nil
	case opNe, opGt, opLt, opGe, opLe:
		return op, nil
	default:
		return "", &UnsupportedOperatorError{Operator: op}
	}
}

// buildCondition evaluates the step's comparison for every row of t and
// returns a boolean mask aligned with the table. The right-hand side is
// another column when ifCompareCol is set, otherwise the coerced ifValue
// literal.
func buildCondition(t *table.Table, def model.StepDefinition) ([]bool, error) {
	if def.IfCol == "" {
		return nil, &ValidationError{Field: "ifCol", Reason: "is required"}
	}
	op, err := normalizeComparator(def.IfOperator)
	if err != nil {
		return nil, err
	}
	left, err := t.Column(def.IfCol)
	if err != nil {
		return nil, err
	}

	var right []table.Value
	if def.IfCompareCol != "" {
		right, err = t.Column(def.IfCompareCol)
		if err != nil {
			return nil, err
		}
	} else {
		lit := table.Coerce(def.IfValue)
		right = make([]table.Value, len(left))
		for i := range right {
			right[i] = lit
		}
	}

	mask := make([]bool, len(left))
	for i := range left {
		mask[i] = compare(left[i], right[i], op)
	}
	return mask, nil
}

// compare applies one comparison to a pair of cells. Numbers compare
// numerically when both sides are numeric, otherwise both sides compare as
// strings. A null fails every comparison except "!=" against a non-null.
func compare(a, b table.Value, op string) bool {
	if a.IsNull() || b.IsNull() {
		return op == opNe && a.IsNull() != b.IsNull()
	}
	if af, aok := a.Float(); aok {
		if bf, bok := b.Float(); bok {
			switch op {
			case opEq:
				return af == bf
			case opNe:
				return af != bf
			case opGt:
				return af > bf
			case opLt:
				return af < bf
			case opGe:
				return af >= bf
			case opLe:
				return af <= bf
			}
		}
	}
	as, bs := a.String(), b.String()
	switch op {
	case opEq:
		return as == bs
	case opNe:
		return as != bs
	case opGt:
		return as > bs
	case opLt:
		return as < bs
	case opGe:
		return as >= bs
	case opLe:
		return as <= bs
	}
	return false
}
