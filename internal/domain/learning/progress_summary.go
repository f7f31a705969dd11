package learning

import "github.com/google/uuid"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "NotStarted"
	ProgressActive     ProgressStatus = "Active"
	ProgressCompleted  ProgressStatus = "Completed"
)

// StatusForPercentage derives the status from an already-rounded percentage.
func StatusForPercentage(p float64) ProgressStatus {
	switch {
	case p <= 0:
		return ProgressNotStarted
	case p >= 100:
		return ProgressCompleted
	default:
		return ProgressActive
	}
}

type ProgressSummary struct {
	EnrollmentID      uuid.UUID                `json:"enrollment_id"`
	CourseID          uuid.UUID                `json:"course_id"`
	TotalLectures     int                      `json:"total_lectures"`
	CompletedLectures int                      `json:"completed_lectures"`
	Percentage        float64                  `json:"percentage"`
	Status            ProgressStatus           `json:"status"`
	Sections          []SectionProgressSummary `json:"sections,omitempty"`
}

type SectionProgressSummary struct {
	SectionID         uuid.UUID         `json:"section_id"`
	Title             string            `json:"title"`
	Order             int               `json:"order"`
	TotalLectures     int               `json:"total_lectures"`
	CompletedLectures int               `json:"completed_lectures"`
	Lectures          []LectureProgress `json:"lectures,omitempty"`
}

type LectureProgress struct {
	LectureID uuid.UUID `json:"lecture_id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Completed bool      `json:"completed"`
}
