package game

// Laser is a fired beam traveling one cell per advance step. It inherits the
// firer's heading at spawn and never changes course. Lasers resolve in
// creation order (slice order), which keeps replayed games deterministic.
type Laser struct {
	Position Position
	Rotation Rotation
	OwnerID  string

	// Remaining is the travel budget in cells. The beam dissipates when it
	// runs out, even in open space.
	Remaining int
}

// NewLaser spawns a beam at the given cell with a full travel budget.
func NewLaser(pos Position, heading Rotation, ownerID string, maxRange int) *Laser {
	return &Laser{
		Position:  pos,
		Rotation:  heading,
		OwnerID:   ownerID,
		Remaining: maxRange,
	}
}
