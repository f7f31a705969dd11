package aggregates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/curriculum"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	domainagg "github.com/yungbote/neurobridge-curriculum/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
)

const (
	opCourseReconcile = "learning.course.reconcile"
	opCourseCreate    = "learning.course.create"
	opCourseDelete    = "learning.course.delete"

	courseTable = "course"
)

type CourseContentAggregateDeps struct {
	Base        BaseDeps
	Courses     curriculum.CourseRepo
	Sections    curriculum.SectionRepo
	Lectures    curriculum.LectureRepo
	Enrollments curriculum.EnrollmentRepo
	Progress    curriculum.ProgressRecordRepo
}

type courseContentAggregate struct {
	deps CourseContentAggregateDeps
}

func NewCourseContentAggregate(deps CourseContentAggregateDeps) domainagg.CourseContentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &courseContentAggregate{deps: deps}
}

func (a *courseContentAggregate) Contract() domainagg.Contract {
	return domainagg.CourseContentAggregateContract
}

func (a *courseContentAggregate) Reconcile(ctx context.Context, in domainagg.ReconcileCourseInput) (domainagg.ReconcileCourseResult, error) {
	out := domainagg.ReconcileCourseResult{}
	if in.CourseID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, opCourseReconcile, "course_id is required", nil)
	}
	if err := contenttree.Validate(in.Submission); err != nil {
		return out, domainagg.Wrap(domainagg.CodeValidation, opCourseReconcile, err)
	}
	if in.Course != nil {
		if err := contenttree.ValidateCourseFields(*in.Course); err != nil {
			return out, domainagg.Wrap(domainagg.CodeValidation, opCourseReconcile, err)
		}
	}

	err := executeWrite(ctx, a.deps.Base, opCourseReconcile, func(dbc dbctx.Context) error {
		course, err := a.deps.Courses.LockByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil || !ownsCourse(course, in.ActorID) {
			return NotFoundError(fmt.Sprintf("course %s not found", in.CourseID))
		}
		if err := RequireVersionMatch(course.Version, in.ExpectedVersion); err != nil {
			return err
		}

		tree, err := a.deps.Courses.GetTree(dbc, course.ID)
		if err != nil {
			return err
		}
		if tree == nil {
			return NotFoundError(fmt.Sprintf("course %s not found", in.CourseID))
		}
		plan, err := contenttree.BuildPlan(tree, in.Submission)
		if err != nil {
			return errors.Join(ErrValidation, err)
		}
		if err := a.applyPlan(dbc, plan); err != nil {
			return err
		}

		var fieldChanges map[string]any
		if in.Course != nil {
			fieldChanges = contenttree.CourseChanges(course, *in.Course)
		}
		ok, err := a.deps.Base.CASGuard.BumpVersion(dbc, courseTable, course.ID, course.Version, fieldChanges)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "course version changed during reconcile"); err != nil {
			return err
		}

		updated, err := a.deps.Courses.GetTree(dbc, course.ID)
		if err != nil {
			return err
		}
		out.Course = updated
		out.Stats = plan.Stats()
		out.Version = updated.Version

		a.deps.Base.Log.Debug("course reconciled",
			"course_id", course.ID,
			"version", updated.Version,
			"sections_inserted", out.Stats.SectionsInserted,
			"sections_updated", out.Stats.SectionsUpdated,
			"sections_deleted", out.Stats.SectionsDeleted,
			"lectures_inserted", out.Stats.LecturesInserted,
			"lectures_updated", out.Stats.LecturesUpdated,
			"lectures_deleted", out.Stats.LecturesDeleted,
		)
		return nil
	})
	if err != nil {
		return domainagg.ReconcileCourseResult{}, err
	}
	return out, nil
}

func (a *courseContentAggregate) CreateCourse(ctx context.Context, in domainagg.CreateCourseInput) (domainagg.ReconcileCourseResult, error) {
	out := domainagg.ReconcileCourseResult{}
	if in.InstructorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, opCourseCreate, "instructor_id is required", nil)
	}
	if err := contenttree.ValidateCourseFields(in.Fields); err != nil {
		return out, domainagg.Wrap(domainagg.CodeValidation, opCourseCreate, err)
	}
	if err := contenttree.Validate(in.Submission); err != nil {
		return out, domainagg.Wrap(domainagg.CodeValidation, opCourseCreate, err)
	}

	err := executeWrite(ctx, a.deps.Base, opCourseCreate, func(dbc dbctx.Context) error {
		created, err := a.deps.Courses.Create(dbc, []*types.Course{contenttree.CourseModel(in.InstructorID, in.Fields)})
		if err != nil {
			return err
		}
		if len(created) != 1 {
			return InvariantError("course insert returned no row")
		}
		course := created[0]

		// A new course reconciles against an empty tree, so only New nodes are accepted.
		plan, err := contenttree.BuildPlan(course, in.Submission)
		if err != nil {
			return errors.Join(ErrValidation, err)
		}
		if err := a.applyPlan(dbc, plan); err != nil {
			return err
		}

		tree, err := a.deps.Courses.GetTree(dbc, course.ID)
		if err != nil {
			return err
		}
		out.Course = tree
		out.Stats = plan.Stats()
		out.Version = tree.Version
		return nil
	})
	if err != nil {
		return domainagg.ReconcileCourseResult{}, err
	}
	return out, nil
}

func (a *courseContentAggregate) DeleteCourse(ctx context.Context, in domainagg.DeleteCourseInput) (domainagg.DeleteCourseResult, error) {
	out := domainagg.DeleteCourseResult{CourseID: in.CourseID}
	if in.CourseID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, opCourseDelete, "course_id is required", nil)
	}

	err := executeWrite(ctx, a.deps.Base, opCourseDelete, func(dbc dbctx.Context) error {
		course, err := a.deps.Courses.LockByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil || !ownsCourse(course, in.ActorID) {
			return NotFoundError(fmt.Sprintf("course %s not found", in.CourseID))
		}
		courseIDs := []uuid.UUID{course.ID}

		enrollmentIDs, err := a.deps.Enrollments.GetIDsByCourseIDs(dbc, courseIDs)
		if err != nil {
			return err
		}
		if out.ProgressRecordsDeleted, err = a.deps.Progress.FullDeleteByEnrollmentIDs(dbc, enrollmentIDs); err != nil {
			return err
		}
		if out.EnrollmentsDeleted, err = a.deps.Enrollments.FullDeleteByIDs(dbc, enrollmentIDs); err != nil {
			return err
		}

		sectionIDs, err := a.deps.Sections.GetIDsByCourseIDs(dbc, courseIDs)
		if err != nil {
			return err
		}
		if out.LecturesDeleted, err = a.deps.Lectures.FullDeleteBySectionIDs(dbc, sectionIDs); err != nil {
			return err
		}
		if out.SectionsDeleted, err = a.deps.Sections.FullDeleteByCourseIDs(dbc, courseIDs); err != nil {
			return err
		}
		n, err := a.deps.Courses.FullDeleteByIDs(dbc, courseIDs)
		if err != nil {
			return err
		}
		if n != 1 {
			return ConflictError("course deleted concurrently")
		}
		return nil
	})
	if err != nil {
		return domainagg.DeleteCourseResult{CourseID: in.CourseID}, err
	}
	return out, nil
}

// applyPlan writes a plan inside the caller's transaction. Rows whose position
// changes are first parked on negative positions so the unique
// (parent, position) indexes hold after every statement.
func (a *courseContentAggregate) applyPlan(dbc dbctx.Context, plan *contenttree.Plan) error {
	if plan.Empty() {
		return nil
	}

	if _, err := a.deps.Lectures.FullDeleteByIDs(dbc, plan.DeleteLectureIDs); err != nil {
		return err
	}
	if len(plan.DeleteSectionIDs) > 0 {
		if _, err := a.deps.Lectures.FullDeleteBySectionIDs(dbc, plan.DeleteSectionIDs); err != nil {
			return err
		}
		if _, err := a.deps.Sections.FullDeleteByIDs(dbc, plan.DeleteSectionIDs); err != nil {
			return err
		}
	}

	for _, u := range plan.SectionUpdates {
		if u.Moved() {
			if err := a.deps.Sections.SetPosition(dbc, u.ID, -u.ToOrder); err != nil {
				return err
			}
		}
	}
	for _, u := range plan.LectureUpdates {
		if u.Moved() {
			if err := a.deps.Lectures.SetPosition(dbc, u.ID, -u.ToOrder); err != nil {
				return err
			}
		}
	}

	for _, u := range plan.SectionUpdates {
		if err := a.deps.Sections.UpdateFields(dbc, u.ID, copyChanges(u.Changes)); err != nil {
			return err
		}
	}
	for _, u := range plan.LectureUpdates {
		if err := a.deps.Lectures.UpdateFields(dbc, u.ID, copyChanges(u.Changes)); err != nil {
			return err
		}
	}

	newSections := make([]*types.Section, 0, len(plan.NewSections))
	for _, slot := range plan.NewSections {
		newSections = append(newSections, contenttree.SectionModel(plan.CourseID, slot))
	}
	created, err := a.deps.Sections.Create(dbc, newSections)
	if err != nil {
		return err
	}
	if len(created) != len(plan.NewSections) {
		return InvariantError(fmt.Sprintf("inserted %d of %d sections", len(created), len(plan.NewSections)))
	}

	newLectures := make([]*types.Lecture, 0, len(plan.NewLectures))
	for _, slot := range plan.NewLectures {
		parent := slot.Parent.ID
		if slot.Parent.IsArena() {
			if slot.Parent.Arena >= len(created) || created[slot.Parent.Arena].ID == uuid.Nil {
				return InvariantError(fmt.Sprintf("new lecture references unknown section slot %d", slot.Parent.Arena))
			}
			parent = created[slot.Parent.Arena].ID
		}
		newLectures = append(newLectures, contenttree.LectureModel(parent, slot))
	}
	if _, err := a.deps.Lectures.Create(dbc, newLectures); err != nil {
		return err
	}
	return nil
}

func ownsCourse(c *types.Course, actorID uuid.UUID) bool {
	return actorID == uuid.Nil || c.InstructorID == actorID
}

func copyChanges(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
