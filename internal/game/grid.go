package game

// Position is a cell coordinate on the arena grid.
// Y grows downward, matching the renderer's screen coordinates.
type Position struct {
	X int
	Y int
}

// Add returns the position translated by the given offset.
func (p Position) Add(o Position) Position {
	return Position{p.X + o.X, p.Y + o.Y}
}

// Sub returns the offset from o to p.
func (p Position) Sub(o Position) Position {
	return Position{p.X - o.X, p.Y - o.Y}
}

// InBounds reports whether the position lies inside a width x height grid.
func (p Position) InBounds(width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

// Coords returns the position as a 2-element array for wire encoding.
func (p Position) Coords() [2]int {
	return [2]int{p.X, p.Y}
}

// Rotation is a cardinal heading in degrees:
// 0 = up, 90 = right, 180 = down, 270 = left.
type Rotation int

const (
	HeadingUp    Rotation = 0
	HeadingRight Rotation = 90
	HeadingDown  Rotation = 180
	HeadingLeft  Rotation = 270
)

// TurnRight returns the heading rotated 90 degrees clockwise.
func (r Rotation) TurnRight() Rotation {
	return (r + 90) % 360
}

// TurnLeft returns the heading rotated 90 degrees counter-clockwise.
func (r Rotation) TurnLeft() Rotation {
	return (r + 270) % 360
}

// Vector returns the unit cell offset for one step along the heading.
func (r Rotation) Vector() Position {
	switch r {
	case HeadingRight:
		return Position{1, 0}
	case HeadingDown:
		return Position{0, 1}
	case HeadingLeft:
		return Position{-1, 0}
	default:
		return Position{0, -1}
	}
}

// Chebyshev returns the chessboard distance between two cells. Player-relative
// views use this metric: a cell is "within radius r" when both coordinate
// offsets are at most r.
func Chebyshev(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
