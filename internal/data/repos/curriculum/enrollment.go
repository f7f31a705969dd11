package curriculum

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type EnrollmentRepo interface {
	Create(dbc dbctx.Context, enrollments []*types.Enrollment) ([]*types.Enrollment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error)
	GetByLearnerAndCourse(dbc dbctx.Context, learnerID uuid.UUID, courseID uuid.UUID) (*types.Enrollment, error)
	GetByLearnerID(dbc dbctx.Context, learnerID uuid.UUID) ([]*types.Enrollment, error)
	GetIDsByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]uuid.UUID, error)
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{
		db:  db,
		log: baseLog.With("repo", "EnrollmentRepo"),
	}
}

// Create inserts enrollments; a second enrollment of the same learner in the
// same course fails on the unique (learner_id, course_id) index.
func (r *enrollmentRepo) Create(dbc dbctx.Context, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(enrollments) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Omit(clause.Associations).
		Create(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Enrollment
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *enrollmentRepo) GetByLearnerAndCourse(dbc dbctx.Context, learnerID uuid.UUID, courseID uuid.UUID) (*types.Enrollment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Enrollment
	if err := transaction.WithContext(dbc.Ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *enrollmentRepo) GetByLearnerID(dbc dbctx.Context, learnerID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Enrollment
	if learnerID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("learner_id = ?", learnerID).
		Order("enrolled_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) GetIDsByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []uuid.UUID
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Enrollment{}).
		Where("course_id IN ?", courseIDs).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Enrollment{})
	return res.RowsAffected, res.Error
}
