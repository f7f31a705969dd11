package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/curriculum"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	domainagg "github.com/yungbote/neurobridge-curriculum/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
)

const (
	opProgressEnroll     = "learning.progress.enroll"
	opProgressUnenroll   = "learning.progress.unenroll"
	opProgressComplete   = "learning.progress.mark_completed"
	opProgressIncomplete = "learning.progress.mark_incomplete"

	progressTable = "progress_record"
)

type ProgressAggregateDeps struct {
	Base        BaseDeps
	Courses     curriculum.CourseRepo
	Lectures    curriculum.LectureRepo
	Enrollments curriculum.EnrollmentRepo
	Progress    curriculum.ProgressRecordRepo
}

type progressAggregate struct {
	deps ProgressAggregateDeps
	now  func() time.Time
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	return &progressAggregate{
		deps: deps,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (a *progressAggregate) Enroll(ctx context.Context, in domainagg.EnrollInput) (domainagg.EnrollResult, error) {
	out := domainagg.EnrollResult{}
	if in.LearnerID == uuid.Nil || in.CourseID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, opProgressEnroll, "learner_id and course_id are required", nil)
	}
	at := in.EnrolledAt
	if at.IsZero() {
		at = a.now()
	}

	err := executeWrite(ctx, a.deps.Base, opProgressEnroll, func(dbc dbctx.Context) error {
		course, err := a.deps.Courses.GetByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return NotFoundError(fmt.Sprintf("course %s not found", in.CourseID))
		}
		existing, err := a.deps.Enrollments.GetByLearnerAndCourse(dbc, in.LearnerID, in.CourseID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ConflictError("learner is already enrolled in this course")
		}
		// A concurrent enroll that slips past the read still trips the unique index.
		created, err := a.deps.Enrollments.Create(dbc, []*types.Enrollment{{
			LearnerID:  in.LearnerID,
			CourseID:   in.CourseID,
			EnrolledAt: at,
		}})
		if err != nil {
			return err
		}
		out.Enrollment = created[0]
		return nil
	})
	if err != nil {
		return domainagg.EnrollResult{}, err
	}
	return out, nil
}

func (a *progressAggregate) Unenroll(ctx context.Context, in domainagg.UnenrollInput) (domainagg.UnenrollResult, error) {
	out := domainagg.UnenrollResult{EnrollmentID: in.EnrollmentID}
	if in.EnrollmentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, opProgressUnenroll, "enrollment_id is required", nil)
	}
	err := executeWrite(ctx, a.deps.Base, opProgressUnenroll, func(dbc dbctx.Context) error {
		enr, err := a.requireEnrollment(dbc, in.EnrollmentID, in.ActorID)
		if err != nil {
			return err
		}
		ids := []uuid.UUID{enr.ID}
		if out.ProgressRecordsDeleted, err = a.deps.Progress.FullDeleteByEnrollmentIDs(dbc, ids); err != nil {
			return err
		}
		n, err := a.deps.Enrollments.FullDeleteByIDs(dbc, ids)
		if err != nil {
			return err
		}
		if n != 1 {
			return ConflictError("enrollment removed concurrently")
		}
		return nil
	})
	if err != nil {
		return domainagg.UnenrollResult{EnrollmentID: in.EnrollmentID}, err
	}
	return out, nil
}

// MarkCompleted retries once when a concurrent writer wins the insert or the
// flip; the second attempt observes the committed record and settles.
func (a *progressAggregate) MarkCompleted(ctx context.Context, in domainagg.MarkLectureInput) (domainagg.MarkLectureResult, error) {
	if err := validateMarkInput(opProgressComplete, in); err != nil {
		return domainagg.MarkLectureResult{}, err
	}
	res, err := a.markCompleted(ctx, in)
	if domainagg.IsCode(err, domainagg.CodeConflict) {
		a.deps.Base.Log.Debug("mark completed lost a race, retrying",
			"enrollment_id", in.EnrollmentID,
			"lecture_id", in.LectureID,
		)
		res, err = a.markCompleted(ctx, in)
	}
	return res, err
}

func (a *progressAggregate) markCompleted(ctx context.Context, in domainagg.MarkLectureInput) (domainagg.MarkLectureResult, error) {
	out := domainagg.MarkLectureResult{}
	at := in.At
	if at.IsZero() {
		at = a.now()
	}

	err := executeWrite(ctx, a.deps.Base, opProgressComplete, func(dbc dbctx.Context) error {
		enr, err := a.requireEnrollment(dbc, in.EnrollmentID, in.ActorID)
		if err != nil {
			return err
		}
		ok, err := a.deps.Lectures.ExistsInCourse(dbc, enr.CourseID, in.LectureID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError(fmt.Sprintf("lecture %s not found in course", in.LectureID))
		}

		rec := &types.ProgressRecord{
			EnrollmentID: enr.ID,
			LectureID:    in.LectureID,
			Completed:    true,
			CompletedAt:  &at,
		}
		inserted, err := a.deps.Progress.InsertIfAbsent(dbc, rec)
		if err != nil {
			return err
		}
		if inserted {
			out = domainagg.MarkLectureResult{Record: rec, Changed: true}
			return nil
		}

		cur, err := a.deps.Progress.GetByEnrollmentAndLecture(dbc, enr.ID, in.LectureID)
		if err != nil {
			return err
		}
		if cur == nil {
			return ConflictError("progress record vanished after insert conflict")
		}
		if cur.Completed {
			out = domainagg.MarkLectureResult{Record: cur, Changed: false}
			return nil
		}
		flipped, err := a.deps.Base.CASGuard.UpdateWhere(dbc, progressTable, cur.ID,
			map[string]any{"completed": false},
			map[string]any{"completed": true, "completed_at": at, "updated_at": at},
		)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(flipped, "progress record changed concurrently"); err != nil {
			return err
		}
		cur.Completed = true
		cur.CompletedAt = &at
		cur.UpdatedAt = at
		out = domainagg.MarkLectureResult{Record: cur, Changed: true}
		return nil
	})
	if err != nil {
		return domainagg.MarkLectureResult{}, err
	}
	return out, nil
}

// MarkIncomplete keeps completed_at as a record of the last completion.
func (a *progressAggregate) MarkIncomplete(ctx context.Context, in domainagg.MarkLectureInput) (domainagg.MarkLectureResult, error) {
	out := domainagg.MarkLectureResult{}
	if err := validateMarkInput(opProgressIncomplete, in); err != nil {
		return out, err
	}
	at := in.At
	if at.IsZero() {
		at = a.now()
	}

	err := executeWrite(ctx, a.deps.Base, opProgressIncomplete, func(dbc dbctx.Context) error {
		enr, err := a.requireEnrollment(dbc, in.EnrollmentID, in.ActorID)
		if err != nil {
			return err
		}
		cur, err := a.deps.Progress.GetByEnrollmentAndLecture(dbc, enr.ID, in.LectureID)
		if err != nil {
			return err
		}
		if cur == nil {
			return NotFoundError(fmt.Sprintf("no progress recorded for lecture %s", in.LectureID))
		}
		if !cur.Completed {
			out = domainagg.MarkLectureResult{Record: cur, Changed: false}
			return nil
		}
		flipped, err := a.deps.Base.CASGuard.UpdateWhere(dbc, progressTable, cur.ID,
			map[string]any{"completed": true},
			map[string]any{"completed": false, "updated_at": at},
		)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(flipped, "progress record changed concurrently"); err != nil {
			return err
		}
		cur.Completed = false
		cur.UpdatedAt = at
		out = domainagg.MarkLectureResult{Record: cur, Changed: true}
		return nil
	})
	if err != nil {
		return domainagg.MarkLectureResult{}, err
	}
	return out, nil
}

func (a *progressAggregate) requireEnrollment(dbc dbctx.Context, enrollmentID, actorID uuid.UUID) (*types.Enrollment, error) {
	enr, err := a.deps.Enrollments.GetByID(dbc, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enr == nil || (actorID != uuid.Nil && enr.LearnerID != actorID) {
		return nil, NotFoundError(fmt.Sprintf("enrollment %s not found", enrollmentID))
	}
	return enr, nil
}

func validateMarkInput(op string, in domainagg.MarkLectureInput) error {
	if in.EnrollmentID == uuid.Nil || in.LectureID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "enrollment_id and lecture_id are required", nil)
	}
	return nil
}
