package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-sheet-analysis/internal/model"
)

var db *sql.DB

// InitDB opens the run-history database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		duration_ms INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		step_index INTEGER,
		step_name TEXT,
		fatal INTEGER,
		error_message TEXT,
		created_at DATETIME
	);
	`
	resultTable := `
	CREATE TABLE IF NOT EXISTS run_results (
		run_id TEXT PRIMARY KEY,
		csv TEXT,
		row_count INTEGER,
		column_count INTEGER,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable, resultTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a new analysis run in pending state.
func SaveRun(runID string, spec model.AnalysisJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, duration_ms, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, specJSON, "pending", 0, now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func UpdateRunStatus(runID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunDuration records the wall-clock duration of a completed run.
func SaveRunDuration(runID string, d time.Duration) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET duration_ms = ?, updated_at = ? WHERE id = ?`,
		d.Milliseconds(), now, runID)
	return err
}

// SaveRunError records a step failure for a run. Non-fatal entries are the
// degraded-step warnings; fatal ones aborted the run.
func SaveRunError(runID string, stepIndex int, stepName string, fatal bool, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, step_index, step_name, fatal, error_message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stepIndex, stepName, fatal, err.Error(), now)
	return e
}

// SaveRunResult stores the exported CSV snapshot of a run's final table.
func SaveRunResult(runID string, csv string, rowCount, columnCount int) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT OR REPLACE INTO run_results (run_id, csv, row_count, column_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, csv, rowCount, columnCount, now)
	return err
}

// GetRunResult fetches the stored CSV for a run.
func GetRunResult(runID string) (string, error) {
	var csv string
	err := db.QueryRow(`SELECT csv FROM run_results WHERE run_id = ?`, runID).Scan(&csv)
	return csv, err
}

// ListRuns returns all runs with basic info.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, duration_ms, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var durationMs int64
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &durationMs, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":         id,
			"status":     status,
			"durationMs": durationMs,
			"createdAt":  createdAt,
			"updatedAt":  updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches a run's full spec and status.
func GetRun(runID string) (map[string]interface{}, error) {
	var specJSON, status string
	var durationMs int64
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, duration_ms, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &status, &durationMs, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.AnalysisJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":         runID,
		"spec":       spec,
		"status":     status,
		"durationMs": durationMs,
		"createdAt":  createdAt,
		"updatedAt":  updatedAt,
	}, nil
}

// GetRunErrors lists all recorded errors and warnings for a run.
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT step_index, step_name, fatal, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var stepIndex int
		var stepName, message string
		var fatal bool
		var createdAt time.Time
		if err := rows.Scan(&stepIndex, &stepName, &fatal, &message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"stepIndex": stepIndex,
			"stepName":  stepName,
			"fatal":     fatal,
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}
