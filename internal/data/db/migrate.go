package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Authoring tree
		// =========================
		&types.Course{},
		&types.Section{},
		&types.Lecture{},

		// =========================
		// Learner tracking
		// =========================
		&types.Enrollment{},
		&types.ProgressRecord{},
	)
}

// EnsureCurriculumIndexes creates the sibling-order uniqueness indexes that back
// dense ordering. The statements are portable across postgres and sqlite.
func EnsureCurriculumIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_course_section_course_position ON course_section(course_id, position);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_course_lecture_section_position ON course_lecture(section_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_progress_record_enrollment_completed ON progress_record(enrollment_id, completed);`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure curriculum index: %w", err)
		}
	}
	return nil
}

// Migrate runs AutoMigrateAll followed by EnsureCurriculumIndexes.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return err
	}
	return EnsureCurriculumIndexes(db)
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureCurriculumIndexes(s.db); err != nil {
		s.log.Error("Curriculum index migration failed", "error", err)
		return err
	}
	return nil
}
