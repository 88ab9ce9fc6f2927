package utils

import (
	"context"
	"errors"
	"testing"
)

func TestHealthMonitorCheck(t *testing.T) {
	h := NewHealthMonitor()
	if st := h.Status(); !st.CheckedAt.IsZero() {
		t.Fatal("status before first check should be empty")
	}

	h.Register("mongo", func(context.Context) error { return nil })
	st := h.Check(context.Background())
	if !st.Healthy || !st.Services["mongo"] {
		t.Fatalf("expected healthy, got %+v", st)
	}

	h.Register("redis", func(context.Context) error { return errors.New("connection refused") })
	st = h.Check(context.Background())
	if st.Healthy || st.Services["redis"] || !st.Services["mongo"] {
		t.Fatalf("expected degraded redis, got %+v", st)
	}
	if got := h.Status(); got.Healthy || got.CheckedAt != st.CheckedAt {
		t.Fatalf("Status should return the last snapshot, got %+v", got)
	}
}
