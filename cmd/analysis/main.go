package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/uuid"

	"go-sheet-analysis/internal/logging"
	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/pipeline"
	"go-sheet-analysis/pkg/utils"
)

// Runs one analysis job from a JSON spec file and writes the result CSV to
// stdout or -out. The API server in cmd/analysis-api does the same with a
// run store behind it.
func main() {
	jobPath := flag.String("job", "", "path to the analysis job spec (JSON)")
	outPath := flag.String("out", "", "result CSV path (default stdout)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, flush := logging.Setup(*debug)
	defer flush()

	if *jobPath == "" {
		log.Fatal("missing -job: path to the analysis job spec")
	}
	data, err := os.ReadFile(*jobPath)
	if err != nil {
		log.Fatalw("failed to read job spec", "path", *jobPath, "error", err)
	}
	var job model.AnalysisJobSpec
	if err := json.Unmarshal(data, &job); err != nil {
		log.Fatalw("failed to decode job spec", "path", *jobPath, "error", err)
	}
	if len(job.Sources) == 0 {
		log.Fatal("job spec needs at least one source")
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(job.Timeout))
	defer cancel()

	reg, err := pipeline.LoadSources(ctx, job.Sources)
	if err != nil {
		log.Fatalw("failed to load sources", "error", err)
	}
	base, ok := reg.Table(job.Base())
	if !ok {
		log.Fatalw("base table not loaded", "name", job.Base())
	}

	runID := uuid.New().String()
	result, err := pipeline.Run(ctx, runID, base, job.Steps, reg)
	if err != nil {
		log.Fatalw("analysis run failed", "error", err)
	}
	for _, warn := range result.Warnings {
		log.Warnw("step was skipped", "step", warn.StepIndex, "name", warn.StepName, "reason", warn.Message)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalw("failed to create output file", "path", *outPath, "error", err)
		}
		defer f.Close()
		out = f
	}
	if err := result.Table.WriteCSV(out); err != nil {
		log.Fatalw("failed to write result CSV", "error", err)
	}
	log.Infow("done", "rows", result.Table.NumRows(), "duration", result.Duration)
}
