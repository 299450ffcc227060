package pipeline

import (
	"testing"
	"time"
)

func TestGuard_NotStarted(t *testing.T) {
	g := NewDurationGuard(30 * time.Second)

	if g.Started() {
		t.Fatalf("not started yet")
	}
	if g.HasExpired() {
		t.Fatalf("unstarted guard must not expire")
	}
	if got := g.ElapsedSeconds(); got != 0 {
		t.Fatalf("elapsed=%v, want 0", got)
	}
	if got := g.RemainingSeconds(); got != 30 {
		t.Fatalf("remaining=%v, want 30", got)
	}
}

func TestGuard_ExpiresAtBudget(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewDurationGuard(30 * time.Second)
	g.now = func() time.Time { return now }

	g.Start()
	if !g.Started() {
		t.Fatalf("expected started")
	}
	if g.HasExpired() {
		t.Fatalf("expired immediately")
	}

	now = now.Add(29 * time.Second)
	if g.HasExpired() {
		t.Fatalf("expired early")
	}
	if got := g.RemainingSeconds(); got != 1 {
		t.Fatalf("remaining=%v, want 1", got)
	}

	now = now.Add(1 * time.Second)
	if !g.HasExpired() {
		t.Fatalf("expected expiry at exactly the budget")
	}
	if got := g.RemainingSeconds(); got != 0 {
		t.Fatalf("remaining=%v, want 0", got)
	}

	now = now.Add(time.Minute)
	if got := g.RemainingSeconds(); got != 0 {
		t.Fatalf("remaining must clamp at 0, got %v", got)
	}
	if got := g.ElapsedSeconds(); got != 90 {
		t.Fatalf("elapsed=%v, want 90", got)
	}
}
