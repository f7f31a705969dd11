package domain

import (
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
)

type Course = learning.Course
type Section = learning.Section
type Lecture = learning.Lecture
type LectureKind = learning.LectureKind
type Enrollment = learning.Enrollment
type ProgressRecord = learning.ProgressRecord
type ProgressStatus = learning.ProgressStatus
type ProgressSummary = learning.ProgressSummary
type SectionProgressSummary = learning.SectionProgressSummary
type LectureProgress = learning.LectureProgress

const (
	LectureKindVideo   = learning.LectureKindVideo
	LectureKindArticle = learning.LectureKindArticle
	LectureKindQuiz    = learning.LectureKindQuiz

	ProgressNotStarted = learning.ProgressNotStarted
	ProgressActive     = learning.ProgressActive
	ProgressCompleted  = learning.ProgressCompleted
)
