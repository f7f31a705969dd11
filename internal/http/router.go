package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-curriculum/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-curriculum/internal/http/middleware"
	"github.com/yungbote/neurobridge-curriculum/internal/observability"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	CourseContentHandler *httpH.CourseContentHandler
	ProgressHandler      *httpH.ProgressHandler
	HealthHandler        *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Course content (instructor)
	if h := cfg.CourseContentHandler; h != nil {
		api.POST("/courses", h.CreateCourse)
		api.GET("/courses", h.ListMyCourses)
		api.GET("/courses/:id", h.GetCourse)
		api.PUT("/courses/:id/content", h.ReconcileContent)
		api.DELETE("/courses/:id", h.DeleteCourse)
	}

	// Progress (learner)
	if h := cfg.ProgressHandler; h != nil {
		api.POST("/courses/:id/enrollments", h.Enroll)
		api.GET("/enrollments", h.ListMyEnrollments)
		api.DELETE("/enrollments/:id", h.Unenroll)
		api.GET("/enrollments/:id/summary", h.GetSummary)
		api.GET("/enrollments/:id/lectures/:lecture_id/completion", h.GetCompletion)
		api.PUT("/enrollments/:id/lectures/:lecture_id/completion", h.MarkCompleted)
		api.DELETE("/enrollments/:id/lectures/:lecture_id/completion", h.MarkIncomplete)
	}

	return r
}
