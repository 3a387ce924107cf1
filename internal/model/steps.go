package model

// OperationType tags a step definition with its step kind.
type OperationType string

const (
	OpLookup               OperationType = "LOOKUP"
	OpArithmetic           OperationType = "ARITHMETIC"
	OpConditional          OperationType = "CONDITIONAL"
	OpConditionalAggregate OperationType = "CONDITIONAL_AGGREGATE"
)

// Aggregate function names for CONDITIONAL_AGGREGATE steps.
const (
	AggSum     = "Sum"
	AggCount   = "Count"
	AggAverage = "Average"
	AggMin     = "Min"
	AggMax     = "Max"
)

// StepDefinition is one configured transformation in a pipeline. It is a flat
// record: only OperationType and OutputName are always required, the rest
// belongs to the step kind named by OperationType and is checked when the
// step runs.
type StepDefinition struct {
	OperationType OperationType `json:"operationType"`
	OutputName    string        `json:"outputName"`

	// LOOKUP (VLOOKUP-style left join against another registered table)
	LeftKeyCol  string `json:"leftKeyCol,omitempty"`
	LookupTable string `json:"lookupTable,omitempty"`
	RightKeyCol string `json:"rightKeyCol,omitempty"`
	ValueCol    string `json:"valueCol,omitempty"`

	// ARITHMETIC (element-wise +, -, *, / between two columns)
	FirstCol  string `json:"firstCol,omitempty"`
	SecondCol string `json:"secondCol,omitempty"`
	Operator  string `json:"operator,omitempty"`

	// Condition fields, shared by CONDITIONAL and CONDITIONAL_AGGREGATE.
	// IfCompareCol set means row-wise comparison against another column,
	// otherwise IfValue is a literal.
	IfCol        string `json:"ifCol,omitempty"`
	IfOperator   string `json:"ifOperator,omitempty"`
	IfValue      string `json:"ifValue,omitempty"`
	IfCompareCol string `json:"ifCompareCol,omitempty"`

	// CONDITIONAL (IF)
	ValueIfTrue  string `json:"valueIfTrue,omitempty"`
	ValueIfFalse string `json:"valueIfFalse,omitempty"`

	// CONDITIONAL_AGGREGATE (SUMIF/COUNTIF/AVERAGEIF/MINIF/MAXIF).
	// OutputStartRow/OutputEndRow are 1-based inclusive; zero means unset.
	// With no OutputStartRow the scalar is broadcast to every row.
	AggregateFunction string `json:"aggregateFunction,omitempty"`
	CalcCol           string `json:"calcCol,omitempty"`
	OutputStartRow    int    `json:"outputStartRow,omitempty"`
	OutputEndRow      int    `json:"outputEndRow,omitempty"`
	OutputTargetCol   string `json:"outputTargetCol,omitempty"`
}
