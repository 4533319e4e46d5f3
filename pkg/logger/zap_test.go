package logger

import (
	"context"
	"testing"

	"github.com/Gunvolt24/peerkart/pkg/ctxmeta"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_AddsRequestAndActor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)
	z := &ZapLogger{base: base, sugar: base.Sugar()}

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	ctx = ctxmeta.WithActorID(ctx, "user-1")
	z.Infof(ctx, "order accepted id=%s", "o-1")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["actor_id"] != "user-1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if entries[0].Message != "order accepted id=o-1" {
		t.Fatalf("unexpected message: %q", entries[0].Message)
	}
}

func TestZapLogger_NoMetadata(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	base := zap.New(core)
	z := &ZapLogger{base: base, sugar: base.Sugar()}

	z.Infof(context.Background(), "ignored")
	z.Warnf(context.Background(), "cache degraded")

	if logs.Len() != 1 {
		t.Fatalf("want only warn entry, got %d", logs.Len())
	}
	if len(logs.All()[0].Context) != 0 {
		t.Fatalf("no metadata expected, got %v", logs.All()[0].Context)
	}
}
