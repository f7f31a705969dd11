package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-curriculum/internal/data/db"
	"github.com/yungbote/neurobridge-curriculum/internal/http"
	"github.com/yungbote/neurobridge-curriculum/internal/observability"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/config"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/envutil"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      *config.Config
	Repos    Repos
	Services Services
	Server   *http.Server
	Metrics  *observability.Metrics

	dbService    *db.DatabaseService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Env, cfg.Telemetry)
	metrics := observability.Init(log, cfg.Telemetry.MetricsEnabled)

	dbService, err := db.NewDatabaseService(log, cfg.Database)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := dbService.AutoMigrateAll(); err != nil {
			_ = dbService.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	theDB := dbService.DB()
	sqlDB, err := theDB.DB()
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("sql pool: %w", err)
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, metrics)
	handlerset := wireHandlers(log, serviceset, sqlDB)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background collectors; it does not block.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.Telemetry.MetricsAddr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB, 15*time.Second)
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTP.Addr)
	return a.Server.Run(ctx, a.Cfg.HTTP.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
