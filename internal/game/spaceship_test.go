package game

import (
	"errors"
	"testing"
	"time"
)

func TestShieldLifecycle(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSpaceship("p1", "Player 1", Position{5, 5}, 5, t0)

	if s.Shielded(t0) {
		t.Fatal("new ship should not be shielded")
	}
	if err := s.ActivateShield(t0, 3*time.Second); err != nil {
		t.Fatalf("ActivateShield() error = %v", err)
	}
	if !s.Shielded(t0.Add(2 * time.Second)) {
		t.Error("shield should hold within its window")
	}
	if s.Shielded(t0.Add(3 * time.Second)) {
		t.Error("shield should lapse exactly at expiry")
	}

	s.ExpireShield(t0.Add(3 * time.Second))
	if s.ShieldActive {
		t.Error("ExpireShield should clear the active flag")
	}
	if !s.ShieldUsed {
		t.Error("ShieldUsed must stay latched")
	}

	if err := s.ActivateShield(t0.Add(10*time.Second), 3*time.Second); !errors.Is(err, ErrShieldAlreadyUsed) {
		t.Errorf("second activation error = %v, want ErrShieldAlreadyUsed", err)
	}
}

func TestApplyDamage(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSpaceship("p1", "Player 1", Position{5, 5}, 2, t0)

	if !s.ApplyDamage(1, t0) {
		t.Fatal("unshielded damage should go through")
	}
	if s.Lives != 1 || !s.Active {
		t.Fatalf("after 1 damage: lives=%d active=%v, want 1 true", s.Lives, s.Active)
	}
	if !s.ApplyDamage(1, t0) {
		t.Fatal("unshielded damage should go through")
	}
	if s.Lives != 0 || s.Active {
		t.Fatalf("after 2 damage: lives=%d active=%v, want 0 false", s.Lives, s.Active)
	}
}

func TestApplyDamageShielded(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSpaceship("p1", "Player 1", Position{5, 5}, 5, t0)
	s.ActivateShield(t0, 3*time.Second)

	if s.ApplyDamage(3, t0.Add(time.Second)) {
		t.Fatal("shielded damage should be soaked")
	}
	if s.Lives != 5 {
		t.Errorf("lives = %d, want 5", s.Lives)
	}
}

func TestLivesLeftClamp(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSpaceship("p1", "Player 1", Position{5, 5}, 1, t0)
	s.ApplyDamage(3, t0)
	if s.Lives >= 0 {
		t.Fatalf("internal lives = %d, want negative after overkill", s.Lives)
	}
	if got := s.LivesLeft(); got != 0 {
		t.Errorf("LivesLeft() = %d, want 0", got)
	}
}
