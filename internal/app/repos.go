package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/curriculum"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type Repos struct {
	Course         curriculum.CourseRepo
	Section        curriculum.SectionRepo
	Lecture        curriculum.LectureRepo
	Enrollment     curriculum.EnrollmentRepo
	ProgressRecord curriculum.ProgressRecordRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:         curriculum.NewCourseRepo(db, log),
		Section:        curriculum.NewSectionRepo(db, log),
		Lecture:        curriculum.NewLectureRepo(db, log),
		Enrollment:     curriculum.NewEnrollmentRepo(db, log),
		ProgressRecord: curriculum.NewProgressRecordRepo(db, log),
	}
}
