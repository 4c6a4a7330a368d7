package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	tests := []struct {
		env       string
		level     string
		wantLevel zapcore.Level
	}{
		{"prod", "", zapcore.InfoLevel},
		{"local", "", zapcore.DebugLevel},
		{"docker", "", zapcore.DebugLevel},
		{"unittest", "", zapcore.WarnLevel},
		{"prod", "error", zapcore.ErrorLevel},
		{"local", "warn", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		l, err := NewLogger(tt.env, tt.level)
		if err != nil {
			t.Fatalf("%s/%s: unexpected error: %v", tt.env, tt.level, err)
		}
		if got := l.Level(); got != tt.wantLevel {
			t.Errorf("%s/%s: level = %v, want %v", tt.env, tt.level, got, tt.wantLevel)
		}
	}
}

func TestNewLogger_Errors(t *testing.T) {
	if _, err := NewLogger("staging", ""); err == nil {
		t.Error("expected error for unknown environment")
	}
	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestFromContext_NoLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a no-op logger, got nil")
	}
}

func TestWith_UsesContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "r1")))

	ctx, l := With(ctx, zap.NewNop(), zap.String("operation", "by_route"))
	l.Info("executed")
	FromContext(ctx).Info("again")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}
	fields := logs.All()[1].ContextMap()
	if fields["request_id"] != "r1" || fields["operation"] != "by_route" {
		t.Errorf("fields = %v", fields)
	}
}

func TestWith_FallsBackToBase(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	_, l := With(context.Background(), zap.New(core), zap.String("k", "v"))
	l.Info("hello")

	if logs.Len() != 1 || logs.All()[0].ContextMap()["k"] != "v" {
		t.Errorf("entries = %v", logs.All())
	}
}
