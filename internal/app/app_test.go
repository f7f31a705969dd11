package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestNewWiresSQLiteApp(t *testing.T) {
	t.Setenv("CURRICULUM_CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("LOG_MODE", "test")

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	if a.Services.CourseContent == nil || a.Services.Progress == nil || a.Services.Auth == nil {
		t.Fatalf("services not wired: %+v", a.Services)
	}

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d %s", rec.Code, rec.Body.String())
	}
	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: %d", rec.Code)
	}
}
