package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	return rec
}

func named(name string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(name))
	}
}

func TestExactRoute(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", named("list"))
	r.POST("/api/v1/runs", named("create"))

	rec := serve(r, http.MethodGet, "/api/v1/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "list", rec.Body.String())

	rec = serve(r, http.MethodPost, "/api/v1/runs")
	assert.Equal(t, "create", rec.Body.String())
}

func TestWildcardSegmentRoute(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs/*/errors", named("errors"))
	r.GET("/api/v1/runs/*", named("detail"))

	rec := serve(r, http.MethodGet, "/api/v1/runs/abc-123/errors")
	assert.Equal(t, "errors", rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/v1/runs/abc-123")
	assert.Equal(t, "detail", rec.Body.String())
}

func TestTrailingWildcardMatchesRest(t *testing.T) {
	r := New()
	r.GET("/swagger/*", named("swagger"))

	rec := serve(r, http.MethodGet, "/swagger/index.html")
	assert.Equal(t, "swagger", rec.Body.String())

	rec = serve(r, http.MethodGet, "/swagger/doc/extra/deep.json")
	assert.Equal(t, "swagger", rec.Body.String())
}

func TestNotFound(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", named("list"))

	rec := serve(r, http.MethodGet, "/api/v1/jobs")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", named("list"))

	rec := serve(r, http.MethodDelete, "/api/v1/runs")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMatchWildcardRoute(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/runs/x", "/api/v1/runs/*", true},
		{"/api/v1/runs/x/errors", "/api/v1/runs/*/errors", true},
		{"/api/v1/runs/x/result", "/api/v1/runs/*/errors", false},
		{"/api/v1/runs", "/api/v1/runs/*", false},
		{"/swagger/a/b/c", "/swagger/*", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchWildcardRoute(tc.path, tc.pattern), "%s vs %s", tc.path, tc.pattern)
	}
}
