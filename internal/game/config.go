package game

import "time"

// Gameplay defaults. The full arena layout (obstacles, minefield) ships in
// internal/config; these cover the rules themselves.
const (
	DefaultWidth          = 30
	DefaultHeight         = 20
	DefaultMaxPlayers     = 4
	DefaultInitialLives   = 5
	DefaultShieldDuration = 3 * time.Second
	DefaultLaserDamage    = 1
	DefaultMineDamage     = 3
	DefaultLaserRange     = 20
	DefaultEnvRadius      = 5
	DefaultTickRate       = 5
)

// Config configures the arena engine.
type Config struct {
	Width  int
	Height int
	Walls  []Position
	Mines  []Position

	MaxPlayers     int
	InitialLives   int
	ShieldDuration time.Duration
	LaserDamage    int
	MineDamage     int
	LaserRange     int
	EnvRadius      int

	// TickRate is the number of advance steps per second driven by Start.
	TickRate int
}

// DefaultConfig returns a bordered 30x20 arena with no obstacles or mines.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Walls:          BorderWalls(DefaultWidth, DefaultHeight),
		MaxPlayers:     DefaultMaxPlayers,
		InitialLives:   DefaultInitialLives,
		ShieldDuration: DefaultShieldDuration,
		LaserDamage:    DefaultLaserDamage,
		MineDamage:     DefaultMineDamage,
		LaserRange:     DefaultLaserRange,
		EnvRadius:      DefaultEnvRadius,
		TickRate:       DefaultTickRate,
	}
}

// BorderWalls builds the closed wall ring around a width x height grid.
func BorderWalls(width, height int) []Position {
	walls := make([]Position, 0, 2*width+2*height)
	for x := 0; x < width; x++ {
		walls = append(walls, Position{x, 0}, Position{x, height - 1})
	}
	for y := 1; y < height-1; y++ {
		walls = append(walls, Position{0, y}, Position{width - 1, y})
	}
	return walls
}

// withDefaults fills zero-valued fields so a partially specified config
// still yields a playable arena.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Walls == nil {
		c.Walls = BorderWalls(c.Width, c.Height)
	}
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = d.MaxPlayers
	}
	if c.InitialLives <= 0 {
		c.InitialLives = d.InitialLives
	}
	if c.ShieldDuration <= 0 {
		c.ShieldDuration = d.ShieldDuration
	}
	if c.LaserDamage <= 0 {
		c.LaserDamage = d.LaserDamage
	}
	if c.MineDamage <= 0 {
		c.MineDamage = d.MineDamage
	}
	if c.LaserRange <= 0 {
		c.LaserRange = d.LaserRange
	}
	if c.EnvRadius <= 0 {
		c.EnvRadius = d.EnvRadius
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	return c
}
