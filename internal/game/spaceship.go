package game

import "time"

// Spaceship is one player-controlled ship on the grid.
type Spaceship struct {
	ID       string
	Name     string
	Position Position
	Rotation Rotation

	// Lives may dip below zero while a single resolution pass applies several
	// hazards; the exported views clamp at zero via LivesLeft.
	Lives int

	// ShieldUsed latches on the first activation and never resets within a
	// game. Protection is re-derived from ShieldExpiresAt at each check, not
	// read back from the cached ShieldActive flag.
	ShieldActive    bool
	ShieldUsed      bool
	ShieldExpiresAt time.Time

	Active   bool
	JoinedAt time.Time
}

// NewSpaceship creates an active ship with a full life count.
func NewSpaceship(id, name string, pos Position, lives int, now time.Time) *Spaceship {
	return &Spaceship{
		ID:       id,
		Name:     name,
		Position: pos,
		Rotation: HeadingUp,
		Lives:    lives,
		Active:   true,
		JoinedAt: now,
	}
}

// Shielded reports whether the ship is protected at the given instant.
func (s *Spaceship) Shielded(now time.Time) bool {
	return s.ShieldActive && now.Before(s.ShieldExpiresAt)
}

// ExpireShield drops the cached shield flag once its window has passed.
func (s *Spaceship) ExpireShield(now time.Time) {
	if s.ShieldActive && !now.Before(s.ShieldExpiresAt) {
		s.ShieldActive = false
	}
}

// ActivateShield raises the one-time shield for the given duration. A second
// activation fails regardless of whether the first shield has expired.
func (s *Spaceship) ActivateShield(now time.Time, duration time.Duration) error {
	if s.ShieldUsed {
		return ErrShieldAlreadyUsed
	}
	s.ShieldActive = true
	s.ShieldUsed = true
	s.ShieldExpiresAt = now.Add(duration)
	return nil
}

// ApplyDamage subtracts lives unless the shield is up, deactivating the ship
// the moment they run out. Eligibility (the ship being active when the hazard
// pass started) is the caller's concern, so that two hazards landing in the
// same pass both apply. Reports whether any damage went through.
func (s *Spaceship) ApplyDamage(amount int, now time.Time) bool {
	if s.Shielded(now) {
		return false
	}
	s.Lives -= amount
	if s.Lives <= 0 {
		s.Active = false
	}
	return true
}

// LivesLeft is the externally observed life count, clamped at zero.
func (s *Spaceship) LivesLeft() int {
	if s.Lives < 0 {
		return 0
	}
	return s.Lives
}
