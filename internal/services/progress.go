package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-curriculum/internal/data/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/curriculum"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	domainagg "github.com/yungbote/neurobridge-curriculum/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
	"github.com/yungbote/neurobridge-curriculum/internal/observability"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

const (
	opProgressSummary   = "learning.progress.summary"
	opProgressCompleted = "learning.progress.is_completed"
)

type ProgressService interface {
	Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error)
	Unenroll(ctx context.Context, enrollmentID uuid.UUID) error
	MarkLectureCompleted(ctx context.Context, enrollmentID, lectureID uuid.UUID) (*types.ProgressRecord, error)
	MarkLectureIncomplete(ctx context.Context, enrollmentID, lectureID uuid.UUID) (*types.ProgressRecord, error)

	// GET
	GetProgressSummary(ctx context.Context, enrollmentID uuid.UUID) (*types.ProgressSummary, error)
	IsLectureCompleted(ctx context.Context, enrollmentID, lectureID uuid.UUID) (bool, error)
	ListMyEnrollments(ctx context.Context) ([]*types.Enrollment, error)
}

type ProgressServiceDeps struct {
	Log         *logger.Logger
	Aggregate   domainagg.ProgressAggregate
	Lectures    curriculum.LectureRepo
	Enrollments curriculum.EnrollmentRepo
	Progress    curriculum.ProgressRecordRepo
	Metrics     *observability.Metrics
}

type progressService struct {
	log         *logger.Logger
	agg         domainagg.ProgressAggregate
	lectures    curriculum.LectureRepo
	enrollments curriculum.EnrollmentRepo
	progress    curriculum.ProgressRecordRepo
	metrics     *observability.Metrics
}

func NewProgressService(deps ProgressServiceDeps) ProgressService {
	return &progressService{
		log:         deps.Log.With("service", "ProgressService"),
		agg:         deps.Aggregate,
		lectures:    deps.Lectures,
		enrollments: deps.Enrollments,
		progress:    deps.Progress,
		metrics:     deps.Metrics,
	}
}

func (s *progressService) Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.agg.Enroll(ctx, domainagg.EnrollInput{LearnerID: userID, CourseID: courseID})
	if err != nil {
		return nil, err
	}
	return res.Enrollment, nil
}

func (s *progressService) Unenroll(ctx context.Context, enrollmentID uuid.UUID) error {
	userID, err := requireUserID(ctx)
	if err != nil {
		return err
	}
	res, err := s.agg.Unenroll(ctx, domainagg.UnenrollInput{EnrollmentID: enrollmentID, ActorID: userID})
	if err != nil {
		return err
	}
	s.log.Info("Unenrolled", "enrollment_id", enrollmentID, "progress_records", res.ProgressRecordsDeleted)
	return nil
}

func (s *progressService) MarkLectureCompleted(ctx context.Context, enrollmentID, lectureID uuid.UUID) (*types.ProgressRecord, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.agg.MarkCompleted(ctx, domainagg.MarkLectureInput{
		EnrollmentID: enrollmentID,
		LectureID:    lectureID,
		ActorID:      userID,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncProgressMark("complete", res.Changed)
	return res.Record, nil
}

func (s *progressService) MarkLectureIncomplete(ctx context.Context, enrollmentID, lectureID uuid.UUID) (*types.ProgressRecord, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.agg.MarkIncomplete(ctx, domainagg.MarkLectureInput{
		EnrollmentID: enrollmentID,
		LectureID:    lectureID,
		ActorID:      userID,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncProgressMark("incomplete", res.Changed)
	return res.Record, nil
}

// GetProgressSummary reads the course hierarchy as it is now. Records whose
// lecture has since been deleted are ignored, so percentages follow edits.
func (s *progressService) GetProgressSummary(ctx context.Context, enrollmentID uuid.UUID) (*types.ProgressSummary, error) {
	enr, err := s.ownedEnrollment(ctx, opProgressSummary, enrollmentID)
	if err != nil {
		return nil, err
	}

	var (
		refs      []curriculum.LectureRef
		completed []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		refs, err = s.lectures.GetRefsByCourseID(dbctx.Context{Ctx: gctx}, enr.CourseID)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.progress.GetCompletedLectureIDs(dbctx.Context{Ctx: gctx}, enr.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError(opProgressSummary, err)
	}

	summary := summarize(enr, refs, completed)
	s.metrics.IncProgressSummary(string(summary.Status))
	return summary, nil
}

func (s *progressService) IsLectureCompleted(ctx context.Context, enrollmentID, lectureID uuid.UUID) (bool, error) {
	enr, err := s.ownedEnrollment(ctx, opProgressCompleted, enrollmentID)
	if err != nil {
		return false, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	rec, err := s.progress.GetByEnrollmentAndLecture(dbc, enr.ID, lectureID)
	if err != nil {
		return false, aggregates.MapError(opProgressCompleted, err)
	}
	if rec == nil || !rec.Completed {
		return false, nil
	}
	// A completed record for a deleted lecture no longer counts.
	exists, err := s.lectures.ExistsInCourse(dbc, enr.CourseID, lectureID)
	if err != nil {
		return false, aggregates.MapError(opProgressCompleted, err)
	}
	return exists, nil
}

func (s *progressService) ListMyEnrollments(ctx context.Context) ([]*types.Enrollment, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.enrollments.GetByLearnerID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError("learning.progress.list_enrollments", err)
	}
	return out, nil
}

func (s *progressService) ownedEnrollment(ctx context.Context, op string, enrollmentID uuid.UUID) (*types.Enrollment, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	enr, err := s.enrollments.GetByID(dbctx.Context{Ctx: ctx}, enrollmentID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if enr == nil || enr.LearnerID != userID {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("enrollment %s not found", enrollmentID), nil)
	}
	return enr, nil
}

// summarize folds the current lecture list and the completed lecture ids into
// a summary. refs must be in display order.
func summarize(enr *types.Enrollment, refs []curriculum.LectureRef, completedIDs []uuid.UUID) *types.ProgressSummary {
	done := make(map[uuid.UUID]bool, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = true
	}

	out := &types.ProgressSummary{
		EnrollmentID:  enr.ID,
		CourseID:      enr.CourseID,
		TotalLectures: len(refs),
		Sections:      []types.SectionProgressSummary{},
	}
	sectionIdx := map[uuid.UUID]int{}
	for _, ref := range refs {
		idx, ok := sectionIdx[ref.SectionID]
		if !ok {
			idx = len(out.Sections)
			sectionIdx[ref.SectionID] = idx
			out.Sections = append(out.Sections, types.SectionProgressSummary{
				SectionID: ref.SectionID,
				Title:     ref.SectionTitle,
				Order:     ref.SectionPosition,
			})
		}
		sec := &out.Sections[idx]
		isDone := done[ref.ID]
		sec.TotalLectures++
		if isDone {
			sec.CompletedLectures++
			out.CompletedLectures++
		}
		sec.Lectures = append(sec.Lectures, types.LectureProgress{
			LectureID: ref.ID,
			Title:     ref.Title,
			Order:     ref.Position,
			Completed: isDone,
		})
	}

	out.Percentage = percentage(out.CompletedLectures, out.TotalLectures)
	out.Status = learning.StatusForPercentage(out.Percentage)
	return out
}

func percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(completed) / float64(total) * 100
	return math.Round(p*100) / 100
}
