package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-curriculum/internal/data/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/curriculum"
	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/testutil"
	"github.com/yungbote/neurobridge-curriculum/internal/observability"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

type harness struct {
	db       *gorm.DB
	metrics  *observability.Metrics
	courses  services.CourseContentService
	progress services.ProgressService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.New()

	courseRepo := curriculum.NewCourseRepo(db, log)
	sectionRepo := curriculum.NewSectionRepo(db, log)
	lectureRepo := curriculum.NewLectureRepo(db, log)
	enrollmentRepo := curriculum.NewEnrollmentRepo(db, log)
	progressRepo := curriculum.NewProgressRecordRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewObservabilityHooks(metrics)}

	contentAgg := aggregates.NewCourseContentAggregate(aggregates.CourseContentAggregateDeps{
		Base:        base,
		Courses:     courseRepo,
		Sections:    sectionRepo,
		Lectures:    lectureRepo,
		Enrollments: enrollmentRepo,
		Progress:    progressRepo,
	})
	progressAgg := aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:        base,
		Courses:     courseRepo,
		Lectures:    lectureRepo,
		Enrollments: enrollmentRepo,
		Progress:    progressRepo,
	})

	return &harness{
		db:      db,
		metrics: metrics,
		courses: services.NewCourseContentService(log, courseRepo, contentAgg, metrics),
		progress: services.NewProgressService(services.ProgressServiceDeps{
			Log:         log,
			Aggregate:   progressAgg,
			Lectures:    lectureRepo,
			Enrollments: enrollmentRepo,
			Progress:    progressRepo,
			Metrics:     metrics,
		}),
	}
}

func as(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}
