package game

// world is the authoritative mutable game state. It is owned by the Engine
// and only touched while the engine's write lock is held.
type world struct {
	width  int
	height int

	wallSet  map[Position]struct{}
	wallList []Position // stable order for views

	mines  []*Mine
	lasers []*Laser

	ships map[string]*Spaceship
	order []string // roster insertion order, fixes tie-breaks and "Player N"

	gameOver bool

	// everPaired latches once two ships have been active at the same time.
	// A lone registrant must not end the game it just started.
	everPaired bool
}

func newWorld(cfg Config) *world {
	w := &world{
		width:   cfg.Width,
		height:  cfg.Height,
		wallSet: make(map[Position]struct{}, len(cfg.Walls)),
		ships:   make(map[string]*Spaceship),
	}
	for _, p := range cfg.Walls {
		if _, dup := w.wallSet[p]; dup {
			continue
		}
		w.wallSet[p] = struct{}{}
		w.wallList = append(w.wallList, p)
	}
	for _, p := range cfg.Mines {
		w.mines = append(w.mines, &Mine{Position: p})
	}
	return w
}

func (w *world) isWall(p Position) bool {
	_, ok := w.wallSet[p]
	return ok
}

// shipsInOrder returns the roster in insertion order.
func (w *world) shipsInOrder() []*Spaceship {
	out := make([]*Spaceship, 0, len(w.order))
	for _, id := range w.order {
		if s, ok := w.ships[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (w *world) activeCount() int {
	n := 0
	for _, s := range w.ships {
		if s.Active {
			n++
		}
	}
	return n
}

// activeIDs snapshots which ships may take damage during one resolution
// pass. Capturing eligibility up front lets several hazards land on the same
// ship in a single pass without the first elimination masking the rest.
func (w *world) activeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(w.ships))
	for id, s := range w.ships {
		if s.Active {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// shipAt returns the first eligible ship on the cell in roster insertion
// order, or nil. Insertion order keeps target selection deterministic when
// ships stack.
func (w *world) shipAt(cell Position, eligible map[string]struct{}) *Spaceship {
	for _, id := range w.order {
		if _, ok := eligible[id]; !ok {
			continue
		}
		if s := w.ships[id]; s != nil && s.Position == cell {
			return s
		}
	}
	return nil
}

func (w *world) removeShip(id string) {
	delete(w.ships, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// lastActive returns the surviving ship id when exactly one ship remains
// active, otherwise the empty string.
func (w *world) lastActive() string {
	survivor := ""
	for id, s := range w.ships {
		if !s.Active {
			continue
		}
		if survivor != "" {
			return ""
		}
		survivor = id
	}
	return survivor
}
