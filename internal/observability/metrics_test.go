package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/courses/:id", "200", 20*time.Millisecond)
	m.ObserveAggregateOperation("learning.course.reconcile", "success", 5*time.Millisecond)
	m.IncAggregateConflict("learning.course.reconcile")
	m.AddReconcileMutations("lecture", "insert", 3)
	m.AddReconcileMutations("lecture", "delete", 0)
	m.IncProgressMark("complete", true)
	m.IncProgressSummary("Active")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`curriculum_api_requests_total{method="GET",route="/api/courses/:id",status="200"} 1`,
		`curriculum_aggregate_operations_total{op="learning.course.reconcile",status="success"} 1`,
		`curriculum_aggregate_conflicts_total{op="learning.course.reconcile"} 1`,
		`curriculum_reconcile_mutations_total{entity="lecture",action="insert"} 3`,
		`curriculum_progress_marks_total{action="complete",changed="true"} 1`,
		`curriculum_aggregate_operation_duration_seconds_bucket{op="learning.course.reconcile",status="success",le="+Inf"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, out)
		}
	}
	if strings.Contains(out, `action="delete"`) {
		t.Fatalf("zero mutation counts should not be recorded")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncProgressMark("complete", false)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil metrics should answer 503, got %d", rec.Code)
	}
}

func TestInitDisabledReturnsNil(t *testing.T) {
	if Init(nil, false) != nil {
		t.Fatalf("disabled metrics should be nil")
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := NewHistogramVec("h", "help", []string{"k"}, []float64{1, 2})
	h.Observe(0.5, "a")
	h.Observe(1.5, "a")
	h.Observe(3, "a")
	if h.Count("a") != 3 {
		t.Fatalf("count=%d", h.Count("a"))
	}
	var buf bytes.Buffer
	_ = h.WritePrometheus(&buf)
	out := buf.String()
	for _, want := range []string{`h_bucket{k="a",le="1"} 1`, `h_bucket{k="a",le="2"} 2`, `h_bucket{k="a",le="+Inf"} 3`, `h_sum{k="a"} 5`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGaugeAndEscaping(t *testing.T) {
	g := NewGauge("g", "help")
	g.Inc()
	g.Inc()
	g.Dec()
	if g.Value() != 1 {
		t.Fatalf("gauge=%v", g.Value())
	}
	c := NewCounterVec("c", "help", []string{"k"})
	c.Inc(`a"b`)
	if c.Value(`a"b`) != 1 {
		t.Fatalf("counter value")
	}
	var buf bytes.Buffer
	_ = c.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), `c{k="a\"b"} 1`) {
		t.Fatalf("escaping: %s", buf.String())
	}
}
