package game

import "errors"

// Rule violations surfaced by the engine. Every rejected action leaves the
// world unchanged; the API layer maps these to HTTP status codes with
// errors.Is.
var (
	ErrNotFound          = errors.New("unknown player id")
	ErrDuplicateID       = errors.New("player id already registered")
	ErrCapacity          = errors.New("player roster is full")
	ErrIllegalMove       = errors.New("move blocked by wall or arena bounds")
	ErrInactivePlayer    = errors.New("player has been eliminated")
	ErrShieldAlreadyUsed = errors.New("shield already used this game")
	ErrGameOver          = errors.New("game is over")
	ErrInvalidTurn       = errors.New(`rotation direction must be "left" or "right"`)
)
