package game

import "time"

// View structs are immutable copies handed across the API and websocket
// boundaries. They carry both json and msgpack tags: the HTTP layer serves
// JSON, the renderer feed sends msgpack frames.

// PlayerView is the public projection of one spaceship. The wire name
// "lifes" is kept for agent compatibility.
type PlayerView struct {
	Position     [2]int `json:"position" msgpack:"position"`
	Rotation     int    `json:"rotation" msgpack:"rotation"`
	Lives        int    `json:"lifes" msgpack:"lifes"`
	ShieldActive bool   `json:"shield_active" msgpack:"shield_active"`
	ShieldUsed   bool   `json:"shield_used" msgpack:"shield_used"`
	Active       bool   `json:"active" msgpack:"active"`
	Name         string `json:"name" msgpack:"name"`
}

// LaserView is one in-flight beam.
type LaserView struct {
	Position  [2]int `json:"position" msgpack:"position"`
	Direction int    `json:"direction" msgpack:"direction"`
	OwnerID   string `json:"owner_id" msgpack:"owner_id"`
}

// StateView is the full world snapshot returned by every action and by the
// state read. The renderer consumes it read-only.
type StateView struct {
	Players  map[string]PlayerView `json:"players" msgpack:"players"`
	Walls    [][2]int              `json:"walls" msgpack:"walls"`
	Mines    [][2]int              `json:"mines" msgpack:"mines"`
	Lasers   []LaserView           `json:"lasers" msgpack:"lasers"`
	GameOver bool                  `json:"game_over" msgpack:"game_over"`
}

// PlayersView exposes per-player public attributes only, no hazards.
type PlayersView struct {
	Players map[string]PlayerView `json:"players" msgpack:"players"`
}

// EnvironmentView is the world translated so the requesting player sits at
// the origin, filtered to hazards within the Chebyshev radius.
type EnvironmentView struct {
	Walls    [][2]int `json:"walls" msgpack:"walls"`
	Mines    [][2]int `json:"mines" msgpack:"mines"`
	Lasers   [][2]int `json:"lasers" msgpack:"lasers"`
	GameOver bool     `json:"game_over" msgpack:"game_over"`
}

func playerView(s *Spaceship, now time.Time) PlayerView {
	return PlayerView{
		Position:     s.Position.Coords(),
		Rotation:     int(s.Rotation),
		Lives:        s.LivesLeft(),
		ShieldActive: s.Shielded(now),
		ShieldUsed:   s.ShieldUsed,
		Active:       s.Active,
		Name:         s.Name,
	}
}

// stateViewLocked snapshots the whole world. Callers hold at least the read
// lock.
func (e *Engine) stateViewLocked(now time.Time) StateView {
	w := e.w
	view := StateView{
		Players:  make(map[string]PlayerView, len(w.ships)),
		Walls:    make([][2]int, 0, len(w.wallList)),
		Mines:    make([][2]int, 0, len(w.mines)),
		Lasers:   make([]LaserView, 0, len(w.lasers)),
		GameOver: w.gameOver,
	}
	for id, s := range w.ships {
		view.Players[id] = playerView(s, now)
	}
	for _, p := range w.wallList {
		view.Walls = append(view.Walls, p.Coords())
	}
	for _, m := range w.mines {
		view.Mines = append(view.Mines, m.Position.Coords())
	}
	for _, l := range w.lasers {
		view.Lasers = append(view.Lasers, LaserView{
			Position:  l.Position.Coords(),
			Direction: int(l.Rotation),
			OwnerID:   l.OwnerID,
		})
	}
	return view
}

// environmentViewLocked translates hazards relative to the origin cell and
// keeps those within the radius (inclusive).
func (e *Engine) environmentViewLocked(origin Position, radius int) EnvironmentView {
	w := e.w
	view := EnvironmentView{
		Walls:    make([][2]int, 0),
		Mines:    make([][2]int, 0),
		Lasers:   make([][2]int, 0),
		GameOver: w.gameOver,
	}
	for _, p := range w.wallList {
		if Chebyshev(p, origin) <= radius {
			view.Walls = append(view.Walls, p.Sub(origin).Coords())
		}
	}
	for _, m := range w.mines {
		if Chebyshev(m.Position, origin) <= radius {
			view.Mines = append(view.Mines, m.Position.Sub(origin).Coords())
		}
	}
	for _, l := range w.lasers {
		if Chebyshev(l.Position, origin) <= radius {
			view.Lasers = append(view.Lasers, l.Position.Sub(origin).Coords())
		}
	}
	return view
}
