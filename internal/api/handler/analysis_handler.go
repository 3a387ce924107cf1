package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-sheet-analysis/internal/model"
	"go-sheet-analysis/internal/pipeline"
	"go-sheet-analysis/internal/store"
	"go-sheet-analysis/internal/table"
	"go-sheet-analysis/pkg/utils"
)

// CreateRun starts a new analysis run
// @Summary Create a new analysis run
// @Description Load the configured sources, apply the analysis steps in order and store the result
// @Tags runs
// @Accept json
// @Produce json
// @Param run body model.AnalysisJobSpec true "Analysis run configuration"
// @Success 200 {object} map[string]interface{} "Run created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	var job model.AnalysisJobSpec
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if len(job.Sources) == 0 {
		http.Error(w, "At least one source is required", http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()

	if err := store.SaveRun(runID, job); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(job.Timeout))
	go func() {
		defer cancel()
		executeRun(ctx, runID, job)
	}()

	resp := map[string]interface{}{
		"message":   "Analysis run created successfully!",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// executeRun drives one run end to end: load sources, run the pipeline,
// record the outcome. All failures land in the run store; nothing is
// swallowed.
func executeRun(ctx context.Context, runID string, job model.AnalysisJobSpec) {
	store.UpdateRunStatus(runID, "running")

	reg, err := pipeline.LoadSources(ctx, job.Sources)
	if err != nil {
		zap.S().Errorw("❌ source loading failed", "run", runID, "error", err)
		store.SaveRunError(runID, 0, "ingest", true, err)
		store.UpdateRunStatus(runID, "failed")
		return
	}
	base, ok := reg.Table(job.Base())
	if !ok {
		err := &pipeline.TableNotFoundError{Name: job.Base()}
		zap.S().Errorw("❌ base table missing", "run", runID, "error", err)
		store.SaveRunError(runID, 0, "ingest", true, err)
		store.UpdateRunStatus(runID, "failed")
		return
	}

	result, err := pipeline.Run(ctx, runID, base, job.Steps, reg)
	if err != nil {
		var stepErr *pipeline.StepError
		if errors.As(err, &stepErr) {
			store.SaveRunError(runID, stepErr.Index, stepErr.Name, true, stepErr.Err)
		} else {
			store.SaveRunError(runID, 0, "run", true, err)
		}
		store.UpdateRunStatus(runID, "failed")
		return
	}
	for _, warn := range result.Warnings {
		store.SaveRunError(runID, warn.StepIndex, warn.StepName, false, warn.Err)
	}

	// The stored CSV snapshot backs the result/export endpoints.
	var buf bytes.Buffer
	if err := result.Table.WriteCSV(&buf); err != nil {
		store.SaveRunError(runID, 0, "export", true, err)
		store.UpdateRunStatus(runID, "failed")
		return
	}
	store.SaveRunResult(runID, buf.String(), result.Table.NumRows(), len(result.Table.Columns()))

	if job.Export != nil {
		pipeline.ExportTable(runID, result.Table, job.Export)
	}

	store.SaveRunDuration(runID, result.Duration)
	store.UpdateRunStatus(runID, "completed")
}

// ListRuns retrieves all analysis runs
// @Summary List all runs
// @Description Get all analysis runs with their current status
// @Tags runs
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun retrieves a specific run
// @Summary Get run
// @Description Retrieve spec and status of a specific analysis run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "")
	if !ok {
		return
	}
	run, err := store.GetRun(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Run not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to fetch run", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunErrors lists errors and warnings of a run
// @Summary Get run errors
// @Description List fatal errors and degraded-step warnings recorded for a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/errors")
	if !ok {
		return
	}
	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to fetch run errors", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(errs)
}

// GetRunResult returns a JSON preview of the result table
// @Summary Get run result
// @Description Preview the final table of a completed run (first rows as JSON)
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Param limit query int false "Maximum preview rows (default 50)"
// @Success 200 {object} pipeline.Preview "Result preview"
// @Failure 404 {object} map[string]interface{} "No result for this run"
// @Router /runs/{id}/result [get]
func GetRunResult(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/result")
	if !ok {
		return
	}
	csvData, err := store.GetRunResult(runID)
	if err != nil {
		http.Error(w, "No result for this run", http.StatusNotFound)
		return
	}
	t, err := table.ReadCSV(strings.NewReader(csvData))
	if err != nil {
		http.Error(w, "Failed to decode stored result", http.StatusInternalServerError)
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pipeline.TablePreview(t, limit))
}

// ExportRunResult downloads the result table as CSV
// @Summary Export run result
// @Description Download the final table of a completed run as CSV
// @Tags runs
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {string} string "CSV content"
// @Failure 404 {object} map[string]interface{} "No result for this run"
// @Router /runs/{id}/export [get]
func ExportRunResult(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/export")
	if !ok {
		return
	}
	csvData, err := store.GetRunResult(runID)
	if err != nil {
		http.Error(w, "No result for this run", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="result.csv"`)
	w.Write([]byte(csvData))
}

// runIDFromPath extracts the run ID between the runs prefix and the given
// suffix, writing a 400 when it is missing.
func runIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	const prefix = "/api/v1/runs/"
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	runID := strings.TrimSuffix(path[len(prefix):], suffix)
	runID = strings.Trim(runID, "/")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return "", false
	}
	return runID, true
}
