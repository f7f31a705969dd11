package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/neurobridge-curriculum/internal/platform/config"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type DatabaseService struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
}

func NewDatabaseService(logg *logger.Logger, cfg config.DatabaseConfig) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService", "driver", cfg.Driver)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := Open(dialector, gormLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql pool: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	serviceLog.Info("Database connected")
	return &DatabaseService{db: db, log: serviceLog, driver: cfg.Driver}, nil
}

// Open applies the gorm settings shared by the service and test harnesses.
func Open(dialector gorm.Dialector, gormLog gormLogger.Interface) (*gorm.DB, error) {
	if gormLog == nil {
		gormLog = gormLogger.Default.LogMode(gormLogger.Silent)
	}
	return gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	})
}

// SQLiteDSN enables foreign keys and a busy timeout on a file path or ":memory:".
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=on&_busy_timeout=5000"
	}
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) Driver() string { return s.driver }

func (s *DatabaseService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
