package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
)

var ProgressAggregateContract = Contract{
	Name:             "Learning.ProgressAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyTableRepoQueries,
	Notes:            "Owns enrollment lifecycle and per-lecture completion records; summaries are computed live from table repos.",
}

// ProgressAggregate owns enrollment and completion-record writes.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodePersistence.
type ProgressAggregate interface {
	Aggregate

	// Enroll creates the single enrollment of a learner in a course.
	Enroll(ctx context.Context, in EnrollInput) (EnrollResult, error)

	// Unenroll removes an enrollment and its progress records.
	Unenroll(ctx context.Context, in UnenrollInput) (UnenrollResult, error)

	// MarkCompleted idempotently marks a lecture complete for an enrollment.
	MarkCompleted(ctx context.Context, in MarkLectureInput) (MarkLectureResult, error)

	// MarkIncomplete clears completion on an existing record; it never creates one.
	MarkIncomplete(ctx context.Context, in MarkLectureInput) (MarkLectureResult, error)
}

type EnrollInput struct {
	LearnerID  uuid.UUID
	CourseID   uuid.UUID
	EnrolledAt time.Time
}

type EnrollResult struct {
	Enrollment *learning.Enrollment
}

type UnenrollInput struct {
	EnrollmentID uuid.UUID
	// ActorID must be the enrolled learner; uuid.Nil skips the ownership check.
	ActorID uuid.UUID
}

type UnenrollResult struct {
	EnrollmentID           uuid.UUID
	ProgressRecordsDeleted int64
}

type MarkLectureInput struct {
	EnrollmentID uuid.UUID
	LectureID    uuid.UUID
	ActorID      uuid.UUID
	At           time.Time
}

type MarkLectureResult struct {
	Record *learning.ProgressRecord
	// Changed is false when the call was a no-op on an already matching record.
	Changed bool
}
