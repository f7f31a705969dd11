package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

func authEngine(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	as := services.NewAuthService(log, "secret", "")
	r := gin.New()
	r.Use(NewAuthMiddleware(log, as).RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})
	return r, as
}

func TestRequireAuthAttachesUser(t *testing.T) {
	r, as := authEngine(t)
	id := uuid.New()
	tok, err := as.IssueAccessToken(id, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != id.String() {
		t.Fatalf("user: want=%s got=%s", id, rec.Body.String())
	}
}

func TestRequireAuthRejects(t *testing.T) {
	r, _ := authEngine(t)
	for name, header := range map[string]string{
		"missing": "",
		"scheme":  "Basic abc",
		"garbage": "Bearer nope",
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want=401 got=%d", name, rec.Code)
		}
	}
}
