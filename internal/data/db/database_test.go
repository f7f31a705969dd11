package db

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/config"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

func TestMigrateCreatesOrderIndexes(t *testing.T) {
	gdb, err := Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(gdb); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// idempotent
	if err := Migrate(gdb); err != nil {
		t.Fatalf("Migrate twice: %v", err)
	}

	c := &learning.Course{Title: "c"}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	if err := gdb.Create(&learning.Section{CourseID: c.ID, Title: "s1", Order: 1}).Error; err != nil {
		t.Fatalf("create section: %v", err)
	}
	if err := gdb.Create(&learning.Section{CourseID: c.ID, Title: "s2", Order: 1}).Error; err == nil {
		t.Fatalf("expected unique violation on duplicate section position")
	}
}

func TestNewDatabaseServiceSQLite(t *testing.T) {
	log := logger.Nop()
	svc, err := NewDatabaseService(log, config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: t.TempDir() + "/curriculum.db"})
	if err != nil {
		t.Fatalf("NewDatabaseService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if svc.Driver() != config.DriverSQLite {
		t.Fatalf("driver=%s", svc.Driver())
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
}

func TestNewDatabaseServiceRejectsUnknownDriver(t *testing.T) {
	if _, err := NewDatabaseService(logger.Nop(), config.DatabaseConfig{Driver: "mongo"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN(":memory:"); got != "file::memory:?cache=shared&_foreign_keys=on&_busy_timeout=5000" {
		t.Fatalf("memory dsn=%s", got)
	}
	if got := SQLiteDSN("/tmp/x.db"); got != "file:/tmp/x.db?_foreign_keys=on&_busy_timeout=5000" {
		t.Fatalf("file dsn=%s", got)
	}
}
