package curriculum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type ProgressRecordRepo interface {
	// InsertIfAbsent inserts rec unless a record for the same (enrollment, lecture)
	// already exists. It reports whether this call inserted the row.
	InsertIfAbsent(dbc dbctx.Context, rec *types.ProgressRecord) (bool, error)
	GetByEnrollmentAndLecture(dbc dbctx.Context, enrollmentID uuid.UUID, lectureID uuid.UUID) (*types.ProgressRecord, error)
	GetByEnrollmentID(dbc dbctx.Context, enrollmentID uuid.UUID) ([]*types.ProgressRecord, error)
	GetCompletedLectureIDs(dbc dbctx.Context, enrollmentID uuid.UUID) ([]uuid.UUID, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByEnrollmentIDs(dbc dbctx.Context, enrollmentIDs []uuid.UUID) (int64, error)
}

type progressRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRecordRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRecordRepo {
	return &progressRecordRepo{
		db:  db,
		log: baseLog.With("repo", "ProgressRecordRepo"),
	}
}

func (r *progressRecordRepo) InsertIfAbsent(dbc dbctx.Context, rec *types.ProgressRecord) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if rec == nil || rec.EnrollmentID == uuid.Nil || rec.LectureID == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lecture_id"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *progressRecordRepo) GetByEnrollmentAndLecture(dbc dbctx.Context, enrollmentID uuid.UUID, lectureID uuid.UUID) (*types.ProgressRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollmentID == uuid.Nil || lectureID == uuid.Nil {
		return nil, nil
	}
	var out []*types.ProgressRecord
	if err := transaction.WithContext(dbc.Ctx).
		Where("enrollment_id = ? AND lecture_id = ?", enrollmentID, lectureID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *progressRecordRepo) GetByEnrollmentID(dbc dbctx.Context, enrollmentID uuid.UUID) ([]*types.ProgressRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ProgressRecord
	if enrollmentID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetCompletedLectureIDs may include lectures that no longer exist.
func (r *progressRecordRepo) GetCompletedLectureIDs(dbc dbctx.Context, enrollmentID uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []uuid.UUID
	if enrollmentID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ProgressRecord{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Pluck("lecture_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *progressRecordRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.ProgressRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *progressRecordRepo) FullDeleteByEnrollmentIDs(dbc dbctx.Context, enrollmentIDs []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(enrollmentIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("enrollment_id IN ?", enrollmentIDs).
		Delete(&types.ProgressRecord{})
	return res.RowsAffected, res.Error
}
