package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/data/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/curriculum"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	domainagg "github.com/yungbote/neurobridge-curriculum/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
	"github.com/yungbote/neurobridge-curriculum/internal/observability"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type ReconcileRequest struct {
	// Course, when set, replaces the course scalar fields in the same transaction.
	Course   *contenttree.CourseFields
	Sections []contenttree.SectionDraft
	// ExpectedVersion opts into compare-and-set on the course version.
	ExpectedVersion *int64
}

type CreateCourseRequest struct {
	Course   contenttree.CourseFields
	Sections []contenttree.SectionDraft
}

type CourseContentResult struct {
	Course *types.Course
	Stats  contenttree.Stats
}

type CourseContentService interface {
	Reconcile(ctx context.Context, courseID uuid.UUID, req ReconcileRequest) (*CourseContentResult, error)
	CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseContentResult, error)
	DeleteCourse(ctx context.Context, courseID uuid.UUID) (*domainagg.DeleteCourseResult, error)

	// GET
	GetCourseTree(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	ListMyCourses(ctx context.Context) ([]*types.Course, error)
}

type courseContentService struct {
	log     *logger.Logger
	courses curriculum.CourseRepo
	agg     domainagg.CourseContentAggregate
	metrics *observability.Metrics
}

func NewCourseContentService(
	baseLog *logger.Logger,
	courses curriculum.CourseRepo,
	agg domainagg.CourseContentAggregate,
	metrics *observability.Metrics,
) CourseContentService {
	return &courseContentService{
		log:     baseLog.With("service", "CourseContentService"),
		courses: courses,
		agg:     agg,
		metrics: metrics,
	}
}

func (s *courseContentService) Reconcile(ctx context.Context, courseID uuid.UUID, req ReconcileRequest) (*CourseContentResult, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if s.agg == nil {
		return nil, fmt.Errorf("course content aggregate not configured")
	}
	res, err := s.agg.Reconcile(ctx, domainagg.ReconcileCourseInput{
		CourseID:        courseID,
		ActorID:         userID,
		Submission:      contenttree.FromDrafts(req.Sections),
		Course:          req.Course,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		s.log.Warn("Reconcile failed", "course_id", courseID, "code", domainagg.CodeOf(err), "error", err)
		return nil, err
	}
	s.recordStats(res.Stats)
	s.log.Info("Course reconciled",
		"course_id", courseID,
		"version", res.Version,
		"sections_inserted", res.Stats.SectionsInserted,
		"sections_deleted", res.Stats.SectionsDeleted,
		"lectures_inserted", res.Stats.LecturesInserted,
		"lectures_deleted", res.Stats.LecturesDeleted,
	)
	return &CourseContentResult{Course: res.Course, Stats: res.Stats}, nil
}

func (s *courseContentService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseContentResult, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if s.agg == nil {
		return nil, fmt.Errorf("course content aggregate not configured")
	}
	res, err := s.agg.CreateCourse(ctx, domainagg.CreateCourseInput{
		InstructorID: userID,
		Fields:       req.Course,
		Submission:   contenttree.FromDrafts(req.Sections),
	})
	if err != nil {
		s.log.Warn("CreateCourse failed", "code", domainagg.CodeOf(err), "error", err)
		return nil, err
	}
	s.recordStats(res.Stats)
	return &CourseContentResult{Course: res.Course, Stats: res.Stats}, nil
}

func (s *courseContentService) DeleteCourse(ctx context.Context, courseID uuid.UUID) (*domainagg.DeleteCourseResult, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if s.agg == nil {
		return nil, fmt.Errorf("course content aggregate not configured")
	}
	res, err := s.agg.DeleteCourse(ctx, domainagg.DeleteCourseInput{CourseID: courseID, ActorID: userID})
	if err != nil {
		return nil, err
	}
	s.log.Info("Course deleted",
		"course_id", courseID,
		"sections", res.SectionsDeleted,
		"lectures", res.LecturesDeleted,
		"enrollments", res.EnrollmentsDeleted,
		"progress_records", res.ProgressRecordsDeleted,
	)
	return &res, nil
}

func (s *courseContentService) GetCourseTree(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	const op = "learning.course.get_tree"
	if _, err := requireUserID(ctx); err != nil {
		return nil, err
	}
	c, err := s.courses.GetTree(dbctx.Context{Ctx: ctx}, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if c == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("course %s not found", courseID), nil)
	}
	return c, nil
}

func (s *courseContentService) ListMyCourses(ctx context.Context) ([]*types.Course, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.courses.GetByInstructorID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError("learning.course.list", err)
	}
	return out, nil
}

func (s *courseContentService) recordStats(st contenttree.Stats) {
	s.metrics.AddReconcileMutations("section", "insert", st.SectionsInserted)
	s.metrics.AddReconcileMutations("section", "update", st.SectionsUpdated)
	s.metrics.AddReconcileMutations("section", "delete", st.SectionsDeleted)
	s.metrics.AddReconcileMutations("lecture", "insert", st.LecturesInserted)
	s.metrics.AddReconcileMutations("lecture", "update", st.LecturesUpdated)
	s.metrics.AddReconcileMutations("lecture", "delete", st.LecturesDeleted)
}
