package calculator

import (
	"errors"
	"testing"
	"time"

	"go-chi-calculator/internal/engine"
)

func TestStoreCreateGetDelete(t *testing.T) {
	s := NewStore(0)

	sess, err := s.Create()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sess {
		t.Fatal("expected Get to return the created session")
	}

	if err := s.Delete(sess.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := s.Delete(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestStoreLimit(t *testing.T) {
	s := NewStore(2)

	for i := 0; i < 2; i++ {
		if _, err := s.Create(); err != nil {
			t.Fatalf("create %d: unexpected error: %v", i, err)
		}
	}

	if _, err := s.Create(); !errors.Is(err, ErrSessionLimit) {
		t.Fatalf("expected ErrSessionLimit, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Len())
	}
}

func TestStoreSweepDropsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(0)
	s.now = func() time.Time { return now }

	stale, _ := s.Create()
	fresh, _ := s.Create()

	now = now.Add(20 * time.Minute)
	fresh.run(now, func(e *engine.Engine) { e.Digit('1') })

	now = now.Add(15 * time.Minute)
	removed := s.Sweep(30 * time.Minute)

	if len(removed) != 1 || removed[0] != stale.ID {
		t.Fatalf("expected only %q to be removed, got %v", stale.ID, removed)
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Fatalf("expected fresh session to survive: %v", err)
	}
}

func TestSessionRunReturnsSnapshot(t *testing.T) {
	s := NewStore(0)
	sess, _ := s.Create()

	snap := sess.run(time.Now(), func(e *engine.Engine) {
		e.Digit('4')
		e.Digit('2')
	})

	if snap.Display != "42" {
		t.Fatalf("expected display %q, got %q", "42", snap.Display)
	}
}
