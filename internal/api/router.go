package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"go-sheet-analysis/internal/api/handler"
	"go-sheet-analysis/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/errors", handler.GetRunErrors)
	r.GET("/api/v1/runs/*/result", handler.GetRunResult)
	r.GET("/api/v1/runs/*/export", handler.ExportRunResult)
	// Generic run route last
	r.GET("/api/v1/runs/*", handler.GetRun)

	r.GET("/swagger/*", func(w http.ResponseWriter, req *http.Request) {
		httpSwagger.WrapHandler(w, req)
	})
}
