package main

import (
	"flag"

	"go.uber.org/zap"

	_ "go-sheet-analysis/docs"
	"go-sheet-analysis/internal/api"
	"go-sheet-analysis/internal/logging"
	"go-sheet-analysis/internal/store"
	"go-sheet-analysis/pkg/router"
)

// @title Sheet Analysis Pipeline API
// @version 1.0
// @description Run spreadsheet-style analysis pipelines (lookup, arithmetic, conditional, conditional aggregate) over tabular sources.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "analysis.db", "run-history database path")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, flush := logging.Setup(*debug)
	defer flush()

	if err := store.InitDB(*dbPath); err != nil {
		log.Fatalw("failed to open run store", "path", *dbPath, "error", err)
	}

	r := router.New()
	api.RegisterRoutes(r)

	if err := r.Start(*addr); err != nil {
		zap.S().Fatalw("server stopped", "error", err)
	}
}
