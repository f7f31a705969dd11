package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/neurobridge-curriculum/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

func serve(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondServiceError(c, "request_failed", err)

	var env ErrorEnvelope
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &env); decodeErr != nil {
		t.Fatalf("decode body: %v (%s)", decodeErr, rec.Body.String())
	}
	return rec, env
}

func TestRespondServiceErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"unauthenticated", fmt.Errorf("x: %w", services.ErrUnauthenticated), http.StatusUnauthorized, "unauthorized"},
		{"not found", domainagg.NewError(domainagg.CodeNotFound, "op", "course missing", nil), http.StatusNotFound, "not_found"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "version", nil), http.StatusConflict, "conflict"},
		{"retryable", domainagg.NewError(domainagg.CodeRetryable, "op", "deadlock", nil), http.StatusServiceUnavailable, "retryable"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "request_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d", tc.want, rec.Code)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, env.Error.Code)
			}
		})
	}
}

func TestRespondServiceErrorHidesPersistenceDetail(t *testing.T) {
	err := domainagg.Wrap(domainagg.CodePersistence, "op", errors.New("pq: relation \"lecture\" does not exist"))
	rec, env := serve(t, err)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", rec.Code)
	}
	if env.Error.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("message leaked: %q", env.Error.Message)
	}
}

func TestRespondServiceErrorIncludesIssues(t *testing.T) {
	ve := &contenttree.ValidationError{Issues: []contenttree.Issue{
		{Path: "sections[0].title", Message: "is required"},
		{Path: "sections[0].lectures[1].kind", Message: "is required"},
	}}
	rec, env := serve(t, domainagg.Wrap(domainagg.CodeValidation, "op", ve))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}
	if len(env.Error.Issues) != 2 || env.Error.Issues[0].Path != "sections[0].title" {
		t.Fatalf("issues: %+v", env.Error.Issues)
	}
}
