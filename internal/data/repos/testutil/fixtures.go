package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
)

// SeedCourse creates a course whose i-th section holds lecturesPerSection[i]
// video lectures, with dense 1-based positions. The returned course carries
// its full tree.
func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, instructorID uuid.UUID, lecturesPerSection ...int) *types.Course {
	tb.Helper()
	if instructorID == uuid.Nil {
		instructorID = uuid.New()
	}
	c := &types.Course{
		InstructorID: instructorID,
		Title:        "course",
		Description:  "seeded",
		Currency:     "USD",
		Version:      1,
	}
	if err := tx.WithContext(ctx).Omit("Sections").Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	for i, n := range lecturesPerSection {
		s := &types.Section{
			CourseID: c.ID,
			Title:    fmt.Sprintf("section %d", i+1),
			Order:    i + 1,
		}
		if err := tx.WithContext(ctx).Omit("Lectures").Create(s).Error; err != nil {
			tb.Fatalf("seed section: %v", err)
		}
		for j := 0; j < n; j++ {
			l := &types.Lecture{
				SectionID:       s.ID,
				Title:           fmt.Sprintf("lecture %d.%d", i+1, j+1),
				Order:           j + 1,
				Kind:            types.LectureKindVideo,
				VideoURL:        "https://cdn.example.com/v.mp4",
				DurationSeconds: 60,
			}
			if err := tx.WithContext(ctx).Create(l).Error; err != nil {
				tb.Fatalf("seed lecture: %v", err)
			}
			s.Lectures = append(s.Lectures, l)
		}
		c.Sections = append(c.Sections, s)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, courseID uuid.UUID) *types.Enrollment {
	tb.Helper()
	if learnerID == uuid.Nil {
		learnerID = uuid.New()
	}
	e := &types.Enrollment{
		LearnerID:  learnerID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Omit("Course").Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, lectureID uuid.UUID, completed bool) *types.ProgressRecord {
	tb.Helper()
	p := &types.ProgressRecord{
		EnrollmentID: enrollmentID,
		LectureID:    lectureID,
		Completed:    completed,
	}
	if completed {
		now := time.Now().UTC()
		p.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Omit("Enrollment").Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}
