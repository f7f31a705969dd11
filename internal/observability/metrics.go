package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	reconcileMutations *CounterVec
	progressMarks      *CounterVec
	progressSummaries  *CounterVec

	dbStats *GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// New builds an unregistered metrics set; Init wires the process-wide one.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("curriculum_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"curriculum_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("curriculum_api_inflight_requests", "In-flight API requests."),

		aggregateOps: NewCounterVec("curriculum_aggregate_operations_total", "Aggregate write operations by op/status.", []string{"op", "status"}),
		aggregateLatency: NewHistogramVec(
			"curriculum_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds by op/status.",
			[]string{"op", "status"},
			nil,
		),
		aggregateConflicts: NewCounterVec("curriculum_aggregate_conflicts_total", "Aggregate writes that ended in a conflict.", []string{"op"}),
		aggregateRetries:   NewCounterVec("curriculum_aggregate_retries_total", "Aggregate writes that ended retryable.", []string{"op"}),

		reconcileMutations: NewCounterVec("curriculum_reconcile_mutations_total", "Rows touched by course reconciliation by entity/action.", []string{"entity", "action"}),
		progressMarks:      NewCounterVec("curriculum_progress_marks_total", "Completion marks by action and whether the record changed.", []string{"action", "changed"}),
		progressSummaries:  NewCounterVec("curriculum_progress_summaries_total", "Progress summaries computed by derived status.", []string{"status"}),

		dbStats: NewGaugeVec("curriculum_db_pool", "database/sql pool statistics.", []string{"stat"}),
	}
}

// Init returns the process-wide metrics, or nil when metrics are disabled.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.aggregateOps,
		m.aggregateLatency,
		m.aggregateConflicts,
		m.aggregateRetries,
		m.reconcileMutations,
		m.progressMarks,
		m.progressSummaries,
		m.dbStats,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Inc(op, status)
	m.aggregateLatency.Observe(dur.Seconds(), op, status)
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(op)
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(op)
}

// AddReconcileMutations records rows touched by one reconcile; entity is
// "section" or "lecture", action is "insert", "update" or "delete".
func (m *Metrics) AddReconcileMutations(entity, action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconcileMutations.Add(float64(n), entity, action)
}

func (m *Metrics) IncProgressMark(action string, changed bool) {
	if m == nil {
		return
	}
	c := "false"
	if changed {
		c = "true"
	}
	m.progressMarks.Inc(action, c)
}

func (m *Metrics) IncProgressSummary(status string) {
	if m == nil {
		return
	}
	m.progressSummaries.Inc(status)
}

// StartDBCollector samples sql pool statistics until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}
