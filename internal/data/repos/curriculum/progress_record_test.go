package curriculum

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
)

func TestProgressRecordRepoInsertIfAbsent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProgressRecordRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx, uuid.Nil, 2)
	e := testutil.SeedEnrollment(t, ctx, tx, uuid.Nil, c.ID)
	lec := c.Sections[0].Lectures[0]

	now := time.Now().UTC()
	first := &types.ProgressRecord{EnrollmentID: e.ID, LectureID: lec.ID, Completed: true, CompletedAt: &now}
	inserted, err := repo.InsertIfAbsent(dbc, first)
	if err != nil || !inserted {
		t.Fatalf("InsertIfAbsent first: err=%v inserted=%v", err, inserted)
	}

	second := &types.ProgressRecord{EnrollmentID: e.ID, LectureID: lec.ID, Completed: true, CompletedAt: &now}
	inserted, err = repo.InsertIfAbsent(dbc, second)
	if err != nil || inserted {
		t.Fatalf("InsertIfAbsent duplicate: err=%v inserted=%v", err, inserted)
	}

	rows, err := repo.GetByEnrollmentID(dbc, e.ID)
	if err != nil || len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("GetByEnrollmentID: err=%v len=%d", err, len(rows))
	}
}

func TestProgressRecordRepoQueries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProgressRecordRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx, uuid.Nil, 3)
	e := testutil.SeedEnrollment(t, ctx, tx, uuid.Nil, c.ID)
	lectures := c.Sections[0].Lectures
	done := testutil.SeedProgress(t, ctx, tx, e.ID, lectures[0].ID, true)
	open := testutil.SeedProgress(t, ctx, tx, e.ID, lectures[1].ID, false)

	got, err := repo.GetByEnrollmentAndLecture(dbc, e.ID, lectures[0].ID)
	if err != nil || got == nil || got.ID != done.ID || !got.Completed {
		t.Fatalf("GetByEnrollmentAndLecture: err=%v got=%+v", err, got)
	}
	if missing, err := repo.GetByEnrollmentAndLecture(dbc, e.ID, lectures[2].ID); err != nil || missing != nil {
		t.Fatalf("GetByEnrollmentAndLecture missing: err=%v got=%+v", err, missing)
	}

	ids, err := repo.GetCompletedLectureIDs(dbc, e.ID)
	if err != nil || len(ids) != 1 || ids[0] != lectures[0].ID {
		t.Fatalf("GetCompletedLectureIDs: err=%v ids=%v", err, ids)
	}

	if err := repo.UpdateFields(dbc, open.ID, map[string]interface{}{"completed": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if ids, _ := repo.GetCompletedLectureIDs(dbc, e.ID); len(ids) != 2 {
		t.Fatalf("completed after update=%d", len(ids))
	}

	if n, err := repo.FullDeleteByEnrollmentIDs(dbc, []uuid.UUID{e.ID}); err != nil || n != 2 {
		t.Fatalf("FullDeleteByEnrollmentIDs: err=%v n=%d", err, n)
	}
}
