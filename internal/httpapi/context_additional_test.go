package httpapi

import (
	"context"
	"testing"
	"time"
)

type ctxKey struct{}

func TestSetBaseContext_NilResetsToBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	SetBaseContext(ctx)
	if serverBaseCtx != ctx {
		t.Fatalf("expected base ctx to be set")
	}
	SetBaseContext(nil)
	if serverBaseCtx != context.Background() {
		t.Fatalf("expected Background after nil")
	}
}

func TestJoinContexts_CancelsWhenEitherDone(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	req := context.WithValue(context.Background(), ctxKey{}, "v")
	ctx, cancel := joinContexts(base, req)
	defer cancel()
	if ctx.Value(ctxKey{}) != "v" {
		t.Fatalf("request values lost")
	}
	cancelBase()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("joined context not canceled by base")
	}

	req2, cancelReq := context.WithCancel(context.Background())
	ctx2, cancel2 := joinContexts(context.Background(), req2)
	defer cancel2()
	cancelReq()
	select {
	case <-ctx2.Done():
	case <-time.After(time.Second):
		t.Fatalf("joined context not canceled by request")
	}
}

func TestJoinContexts_CancelFuncReleases(t *testing.T) {
	ctx, cancel := joinContexts(context.Background(), context.Background())
	cancel()
	if ctx.Err() == nil {
		t.Fatalf("expected canceled context")
	}
}
