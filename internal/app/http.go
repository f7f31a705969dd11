package app

import (
	"database/sql"

	"github.com/yungbote/neurobridge-curriculum/internal/http"
	httpH "github.com/yungbote/neurobridge-curriculum/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-curriculum/internal/http/middleware"
	"github.com/yungbote/neurobridge-curriculum/internal/observability"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/config"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health        *httpH.HealthHandler
	CourseContent *httpH.CourseContentHandler
	Progress      *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, services Services, sqlDB *sql.DB) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		CourseContent: httpH.NewCourseContentHandler(log, services.CourseContent),
		Progress:      httpH.NewProgressHandler(log, services.Progress),
	}
	if sqlDB != nil {
		h.Health = httpH.NewHealthHandler(sqlDB)
	} else {
		h.Health = httpH.NewHealthHandler(nil)
	}
	return h
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Telemetry.OtelEnabled {
		serviceName = cfg.Telemetry.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:                  log,
		Metrics:              metrics,
		ServiceName:          serviceName,
		CORSOrigins:          cfg.HTTP.CORSOrigins,
		AuthMiddleware:       middleware.Auth,
		CourseContentHandler: handlers.CourseContent,
		ProgressHandler:      handlers.Progress,
		HealthHandler:        handlers.Health,
	}, cfg.HTTP)
}
