package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
)

var CourseContentAggregateContract = Contract{
	Name:             "Learning.CourseContentAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns the Course → Section → Lecture tree: identity-preserving reconcile, dense ordering, cascade deletes.",
}

// CourseContentAggregate owns structural writes to a course tree.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodePersistence.
type CourseContentAggregate interface {
	Aggregate

	// Reconcile makes the persisted section/lecture tree match the submission.
	Reconcile(ctx context.Context, in ReconcileCourseInput) (ReconcileCourseResult, error)

	// CreateCourse inserts a course and reconciles its initial tree from empty.
	CreateCourse(ctx context.Context, in CreateCourseInput) (ReconcileCourseResult, error)

	// DeleteCourse removes a course with its sections, lectures, enrollments and progress.
	DeleteCourse(ctx context.Context, in DeleteCourseInput) (DeleteCourseResult, error)
}

type ReconcileCourseInput struct {
	CourseID uuid.UUID
	// ActorID must be the course instructor; uuid.Nil skips the ownership check.
	ActorID    uuid.UUID
	Submission contenttree.Submission
	// Course, when set, replaces the course scalar fields.
	Course *contenttree.CourseFields
	// ExpectedVersion enables compare-and-set on course.version; nil is last-writer-wins.
	ExpectedVersion *int64
}

type ReconcileCourseResult struct {
	Course  *learning.Course
	Stats   contenttree.Stats
	Version int64
}

type CreateCourseInput struct {
	InstructorID uuid.UUID
	Fields       contenttree.CourseFields
	Submission   contenttree.Submission
}

type DeleteCourseInput struct {
	CourseID uuid.UUID
	ActorID  uuid.UUID
}

type DeleteCourseResult struct {
	CourseID               uuid.UUID
	SectionsDeleted        int64
	LecturesDeleted        int64
	EnrollmentsDeleted     int64
	ProgressRecordsDeleted int64
}
