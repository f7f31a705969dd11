package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id})
	if got := UserID(ctx); got != id {
		t.Fatalf("user id: want=%s got=%s", id, got)
	}
	if got := UserID(context.Background()); got != uuid.Nil {
		t.Fatalf("missing request data should yield nil uuid, got=%s", got)
	}
}

func TestTraceData(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t", RequestID: "r"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t" || td.RequestID != "r" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	if GetTraceData(context.Background()) != nil {
		t.Fatalf("expected nil trace data")
	}
}

//nolint:staticcheck // nil context is the case under test
func TestDefault(t *testing.T) {
	if Default(nil) == nil {
		t.Fatalf("Default(nil) returned nil")
	}
}
