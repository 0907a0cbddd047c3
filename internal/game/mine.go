package game

// Mine is a static hazard. It detonates against the first ship or laser that
// touches its cell and is removed from the world in the same pass.
type Mine struct {
	Position Position
}
