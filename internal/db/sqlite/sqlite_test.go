package sqlite

import (
	"context"
	"testing"
)

func TestDSN(t *testing.T) {
	got := DSN("/data/hotels.db")
	want := "file:/data/hotels.db?_busy_timeout=5000&mode=ro"
	if got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
