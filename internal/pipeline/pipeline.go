package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/table"
)

// StepWarning records a step that degraded to a no-op during a run.
// StepIndex is 1-based.
type StepWarning struct {
	StepIndex int    `json:"step_index"`
	StepName  string `json:"step_name"`
	Err       error  `json:"-"`
	Message   string `json:"message"`
}

// RunResult is the outcome of a successful pipeline run.
type RunResult struct {
	Table    *table.Table
	Duration time.Duration
	Warnings []StepWarning
}

// ------------------- Pipeline Runner -------------------

// Run applies the steps in order to a working copy of base. The first fatal
// step failure aborts the run with a StepError naming the 1-based step index
// and its output name; degraded CONDITIONAL_AGGREGATE failures are collected
// as warnings and the run continues. base and the registry are never
// mutated.
func Run(ctx context.Context, runID string, base *table.Table, steps []model.StepDefinition, reg table.Registry) (*RunResult, error) {
	start := time.Now()
	log := zap.S().With("run", runID)
	log.Infow("🚀 starting analysis run", "steps", len(steps), "rows", base.NumRows())

	current := base.Clone()
	var warnings []StepWarning
	for i, def := range steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		next, err := Apply(current, def, reg)
		if err != nil {
			if IsDegraded(err) {
				log.Warnw("⚠️ step degraded to a no-op", "step", i+1, "name", def.OutputName, "error", err)
				warnings = append(warnings, StepWarning{
					StepIndex: i + 1,
					StepName:  def.OutputName,
					Err:       err,
					Message:   err.Error(),
				})
				current = next
				continue
			}
			log.Errorw("❌ step failed, aborting run", "step", i+1, "name", def.OutputName, "error", err)
			return nil, &StepError{Index: i + 1, Name: def.OutputName, Err: err}
		}
		current = next
		log.Debugw("✅ step applied", "step", i+1, "name", def.OutputName, "rows", current.NumRows())
	}

	duration := time.Since(start)
	log.Infow("🏁 analysis run completed", "duration", duration, "rows", current.NumRows(), "warnings", len(warnings))
	return &RunResult{Table: current, Duration: duration, Warnings: warnings}, nil
}
