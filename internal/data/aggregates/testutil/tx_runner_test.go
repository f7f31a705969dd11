package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
)

func TestInjectedTxRunner_CommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_RollbackOnBodyError(t *testing.T) {
	r := &InjectedTxRunner{}
	bodyErr := errors.New("boom")
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Fatalf("expected body err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_FailCommitTriggersRollback(t *testing.T) {
	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{FailCommit: commitErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return nil
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_FailBeginSkipsBody(t *testing.T) {
	beginErr := errors.New("connection refused")
	r := &InjectedTxRunner{FailBegin: beginErr}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, beginErr) || called {
		t.Fatalf("expected begin err without body, err=%v called=%v", err, called)
	}
	if r.BeginCalls != 1 || r.CommitCalls != 0 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

type recordingRunner struct {
	calls int
}

func (r *recordingRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.calls++
	return fn(dbctx.Context{Ctx: ctx})
}

func TestInjectedTxRunner_DelegatesToInner(t *testing.T) {
	inner := &recordingRunner{}
	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{Inner: inner, FailCommit: commitErr}
	ran := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		ran = true
		return nil
	})
	if !errors.Is(err, commitErr) || !ran {
		t.Fatalf("expected commit err after body, err=%v ran=%v", err, ran)
	}
	if inner.calls != 1 {
		t.Fatalf("inner runner calls=%d", inner.calls)
	}
	if r.RollbackCalls != 1 || r.CommitCalls != 0 {
		t.Fatalf("unexpected counters commit=%d rollback=%d", r.CommitCalls, r.RollbackCalls)
	}
}
