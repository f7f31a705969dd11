package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-curriculum/internal/data/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/observability"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/config"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

type Services struct {
	Auth          services.AuthService
	CourseContent services.CourseContentService
	Progress      services.ProgressService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg *config.Config, repos Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	base := aggregates.BaseDeps{
		DB:     db,
		Log:    log,
		Runner: aggregates.NewGormTxRunner(db),
		Hooks:  aggregates.NewObservabilityHooks(metrics),
	}
	contentAgg := aggregates.NewCourseContentAggregate(aggregates.CourseContentAggregateDeps{
		Base:        base,
		Courses:     repos.Course,
		Sections:    repos.Section,
		Lectures:    repos.Lecture,
		Enrollments: repos.Enrollment,
		Progress:    repos.ProgressRecord,
	})
	progressAgg := aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:        base,
		Courses:     repos.Course,
		Lectures:    repos.Lecture,
		Enrollments: repos.Enrollment,
		Progress:    repos.ProgressRecord,
	})

	return Services{
		Auth:          services.NewAuthService(log, cfg.Auth.JWTSecretKey, cfg.Auth.JWTIssuer),
		CourseContent: services.NewCourseContentService(log, repos.Course, contentAgg, metrics),
		Progress: services.NewProgressService(services.ProgressServiceDeps{
			Log:         log,
			Aggregate:   progressAgg,
			Lectures:    repos.Lecture,
			Enrollments: repos.Enrollment,
			Progress:    repos.ProgressRecord,
			Metrics:     metrics,
		}),
	}
}
