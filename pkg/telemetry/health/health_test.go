package health

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func TestCheck_NoChecks(t *testing.T) {
	r := New(0).Check(context.Background())
	if !r.Healthy() {
		t.Errorf("status = %q, want ready", r.Status)
	}
	if len(r.Checks) != 0 {
		t.Errorf("unexpected checks %v", r.Checks)
	}
}

func TestCheck_Aggregates(t *testing.T) {
	c := New(time.Second)
	c.Register("rules", func(context.Context) error { return nil })
	c.Register("history", func(context.Context) error { return errors.New("database is locked") })

	r := c.Check(context.Background())
	if r.Status != StatusDegraded {
		t.Errorf("status = %q, want degraded", r.Status)
	}
	if got := r.Checks["rules"]; got.Status != StatusOK || got.Message != "" {
		t.Errorf("rules = %+v", got)
	}
	if got := r.Checks["history"]; got.Status != StatusUnhealthy || got.Message != "database is locked" {
		t.Errorf("history = %+v", got)
	}
}

func TestCheck_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	release := make(chan struct{})
	defer close(release)
	c.Register("slow", func(ctx context.Context) error {
		<-release
		return nil
	})

	start := time.Now()
	r := c.Check(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("check did not honour the timeout")
	}
	if got := r.Checks["slow"]; got.Status != StatusUnhealthy || got.Message != context.DeadlineExceeded.Error() {
		t.Errorf("slow = %+v", got)
	}
}

func TestRegister_Replaces(t *testing.T) {
	c := New(0)
	c.Register("b", func(context.Context) error { return errors.New("down") })
	c.Register("a", func(context.Context) error { return nil })
	c.Register("b", func(context.Context) error { return nil })

	if got := c.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("names = %v", got)
	}
	if r := c.Check(context.Background()); !r.Healthy() {
		t.Errorf("status = %q, want ready", r.Status)
	}
}
