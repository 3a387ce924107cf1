package pipeline

import (
	"errors"
	"fmt"
)

// ValidationError reports a step definition missing a required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid step: %s %s", e.Field, e.Reason)
}

// TableNotFoundError reports a lookupTable name with no entry in the registry.
type TableNotFoundError struct {
	Name string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q not found in registry", e.Name)
}

// UnsupportedOperatorError reports an operator outside the supported set.
type UnsupportedOperatorError struct {
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: %q", e.Operator)
}

// RowRangeOutOfBoundsError reports an output row range starting past the end
// of the table.
type RowRangeOutOfBoundsError struct {
	StartRow int
	NumRows  int
}

func (e *RowRangeOutOfBoundsError) Error() string {
	return fmt.Sprintf("start row %d is beyond the end of the table (%d rows)", e.StartRow, e.NumRows)
}

// DegradedError wraps failures of step kinds that do not abort the run: the
// step becomes a no-op, the failure is reported as a warning and later steps
// still execute. Only CONDITIONAL_AGGREGATE degrades this way.
type DegradedError struct {
	Err error
}

func (e *DegradedError) Error() string { return e.Err.Error() }
func (e *DegradedError) Unwrap() error { return e.Err }

// IsDegraded reports whether err is non-fatal to the pipeline run.
func IsDegraded(err error) bool {
	var d *DegradedError
	return errors.As(err, &d)
}

// StepError reports which pipeline step failed and why. Index is 1-based.
type StepError struct {
	Index int
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
