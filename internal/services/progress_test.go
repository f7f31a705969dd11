package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	domainagg "github.com/yungbote/neurobridge-curriculum/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

func TestProgressSummaryFollowsCourseEdits(t *testing.T) {
	h := newHarness(t)
	instructor, learner := uuid.New(), uuid.New()
	c := testutil.SeedCourse(t, context.Background(), h.db, instructor, 4)
	lectures := c.Sections[0].Lectures

	enr, err := h.progress.Enroll(as(learner), c.ID)
	require.NoError(t, err)

	sum, err := h.progress.GetProgressSummary(as(learner), enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.TotalLectures)
	assert.Equal(t, 0.0, sum.Percentage)
	assert.Equal(t, types.ProgressNotStarted, sum.Status)

	for _, l := range lectures[:2] {
		_, err := h.progress.MarkLectureCompleted(as(learner), enr.ID, l.ID)
		require.NoError(t, err)
	}
	sum, err = h.progress.GetProgressSummary(as(learner), enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.CompletedLectures)
	assert.Equal(t, 50.0, sum.Percentage)
	assert.Equal(t, types.ProgressActive, sum.Status)

	// Drop lectures 2 and 4: one completed, one not.
	drafts := contenttree.ToDrafts(c)
	drafts[0].Lectures = []contenttree.LectureDraft{drafts[0].Lectures[0], drafts[0].Lectures[2]}
	_, err = h.courses.Reconcile(as(instructor), c.ID, services.ReconcileRequest{Sections: drafts})
	require.NoError(t, err)

	sum, err = h.progress.GetProgressSummary(as(learner), enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalLectures)
	assert.Equal(t, 1, sum.CompletedLectures)
	assert.Equal(t, 50.0, sum.Percentage)
	assert.Equal(t, types.ProgressActive, sum.Status)
	require.Len(t, sum.Sections, 1)
	require.Len(t, sum.Sections[0].Lectures, 2)
	assert.Equal(t, lectures[0].ID, sum.Sections[0].Lectures[0].LectureID)
	assert.True(t, sum.Sections[0].Lectures[0].Completed)
	assert.Equal(t, 2, sum.Sections[0].Lectures[1].Order)

	done, err := h.progress.IsLectureCompleted(as(learner), enr.ID, lectures[1].ID)
	require.NoError(t, err)
	assert.False(t, done, "deleted lecture must not count as completed")
	done, err = h.progress.IsLectureCompleted(as(learner), enr.ID, lectures[0].ID)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestProgressSummaryRoundsToTwoDecimals(t *testing.T) {
	h := newHarness(t)
	learner := uuid.New()
	c := testutil.SeedCourse(t, context.Background(), h.db, uuid.Nil, 3)
	enr, err := h.progress.Enroll(as(learner), c.ID)
	require.NoError(t, err)

	_, err = h.progress.MarkLectureCompleted(as(learner), enr.ID, c.Sections[0].Lectures[0].ID)
	require.NoError(t, err)
	sum, err := h.progress.GetProgressSummary(as(learner), enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, sum.Percentage)

	for _, l := range c.Sections[0].Lectures[1:] {
		_, err = h.progress.MarkLectureCompleted(as(learner), enr.ID, l.ID)
		require.NoError(t, err)
	}
	sum, err = h.progress.GetProgressSummary(as(learner), enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, sum.Percentage)
	assert.Equal(t, types.ProgressCompleted, sum.Status)
}

func TestProgressSummaryOfEmptyCourse(t *testing.T) {
	h := newHarness(t)
	learner := uuid.New()
	c := testutil.SeedCourse(t, context.Background(), h.db, uuid.Nil)
	enr, err := h.progress.Enroll(as(learner), c.ID)
	require.NoError(t, err)

	sum, err := h.progress.GetProgressSummary(as(learner), enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TotalLectures)
	assert.Equal(t, 0.0, sum.Percentage)
	assert.Equal(t, types.ProgressNotStarted, sum.Status)
	assert.Empty(t, sum.Sections)
}

func TestProgressSummaryHidesOtherLearners(t *testing.T) {
	h := newHarness(t)
	learner := uuid.New()
	c := testutil.SeedCourse(t, context.Background(), h.db, uuid.Nil, 1)
	enr, err := h.progress.Enroll(as(learner), c.ID)
	require.NoError(t, err)

	_, err = h.progress.GetProgressSummary(as(uuid.New()), enr.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "foreign enrollment: %v", err)
	_, err = h.progress.GetProgressSummary(as(learner), uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "missing enrollment: %v", err)
	_, err = h.progress.IsLectureCompleted(as(learner), uuid.New(), c.Sections[0].Lectures[0].ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "missing enrollment: %v", err)
}

func TestMarkIncompleteWithoutRecord(t *testing.T) {
	h := newHarness(t)
	learner := uuid.New()
	c := testutil.SeedCourse(t, context.Background(), h.db, uuid.Nil, 2)
	enr, err := h.progress.Enroll(as(learner), c.ID)
	require.NoError(t, err)

	_, err = h.progress.MarkLectureIncomplete(as(learner), enr.ID, c.Sections[0].Lectures[0].ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "no record: %v", err)

	done, err := h.progress.IsLectureCompleted(as(learner), enr.ID, c.Sections[0].Lectures[0].ID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestProgressMetricsRecorded(t *testing.T) {
	h := newHarness(t)
	learner := uuid.New()
	c := testutil.SeedCourse(t, context.Background(), h.db, uuid.Nil, 1)
	enr, err := h.progress.Enroll(as(learner), c.ID)
	require.NoError(t, err)
	lec := c.Sections[0].Lectures[0]

	_, err = h.progress.MarkLectureCompleted(as(learner), enr.ID, lec.ID)
	require.NoError(t, err)
	_, err = h.progress.MarkLectureCompleted(as(learner), enr.ID, lec.ID)
	require.NoError(t, err)
	_, err = h.progress.GetProgressSummary(as(learner), enr.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.metrics.WritePrometheus(&buf))
	out := buf.String()
	assert.Contains(t, out, `curriculum_progress_marks_total{action="complete",changed="true"} 1`)
	assert.Contains(t, out, `curriculum_progress_marks_total{action="complete",changed="false"} 1`)
	assert.Contains(t, out, `curriculum_progress_summaries_total{status="Completed"} 1`)
	assert.Contains(t, out, `curriculum_aggregate_operations_total{op="learning.progress.enroll",status="success"} 1`)
}

func TestListMyEnrollmentsAndUnenroll(t *testing.T) {
	h := newHarness(t)
	learner := uuid.New()
	a := testutil.SeedCourse(t, context.Background(), h.db, uuid.Nil, 1)
	b := testutil.SeedCourse(t, context.Background(), h.db, uuid.Nil, 1)
	ea, err := h.progress.Enroll(as(learner), a.ID)
	require.NoError(t, err)
	_, err = h.progress.Enroll(as(learner), b.ID)
	require.NoError(t, err)

	list, err := h.progress.ListMyEnrollments(as(learner))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, h.progress.Unenroll(as(learner), ea.ID))
	list, err = h.progress.ListMyEnrollments(as(learner))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].CourseID)
}

func TestProgressRequiresCaller(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.progress.Enroll(ctx, uuid.New())
	assert.True(t, errors.Is(err, services.ErrUnauthenticated))
	_, err = h.progress.GetProgressSummary(ctx, uuid.New())
	assert.True(t, errors.Is(err, services.ErrUnauthenticated))
	_, err = h.progress.ListMyEnrollments(ctx)
	assert.True(t, errors.Is(err, services.ErrUnauthenticated))
}
