package aggregates

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
	"gorm.io/gorm"
)

// CASGuard provides optimistic/concurrency guard helpers for aggregate writes.
type CASGuard struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

func (g CASGuard) stamp(updates map[string]any) map[string]any {
	out := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		out[k] = v
	}
	if _, ok := out["updated_at"]; !ok {
		now := time.Now().UTC()
		if g.now != nil {
			now = g.now()
		}
		out["updated_at"] = now
	}
	return out
}

// BumpVersion advances a row's version by one when id+version match.
// It implements compare-and-set semantics commonly used for optimistic locking.
func (g CASGuard) BumpVersion(dbc dbctx.Context, table string, id uuid.UUID, expectedVersion int64, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || id == uuid.Nil {
		return false, ValidationError("table and id are required for BumpVersion")
	}
	if expectedVersion < 0 {
		return false, ValidationError("expectedVersion must be >= 0")
	}
	fields := g.stamp(updates)
	fields["version"] = gorm.Expr("version + 1")
	res := db.Table(table).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateWhere updates a row only when every guard column still holds its
// expected value. Callers use it to flip state exactly once under races.
func (g CASGuard) UpdateWhere(dbc dbctx.Context, table string, id uuid.UUID, guard map[string]any, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || id == uuid.Nil {
		return false, ValidationError("table and id are required for UpdateWhere")
	}
	if len(guard) == 0 {
		return false, ValidationError("guard must not be empty")
	}
	q := db.Table(table).Where("id = ?", id)
	for col, val := range guard {
		q = q.Where(col+" = ?", val)
	}
	res := q.Updates(g.stamp(updates))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}

// RequireVersionMatch validates version equality for optimistic locking flows.
// A nil expectation skips the check.
func RequireVersionMatch(current int64, expected *int64) error {
	if expected == nil {
		return nil
	}
	if *expected < 0 {
		return ValidationError("expected version must be >= 0")
	}
	if current != *expected {
		return ConflictError("version mismatch")
	}
	return nil
}
