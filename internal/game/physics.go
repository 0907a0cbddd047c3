package game

import "time"

// Hazard kinds carried in damage events.
const (
	HazardLaser = "laser"
	HazardMine  = "mine"
)

// DamageEvent describes one hazard landing on a ship during a resolution
// pass. AttackerID is empty for mines.
type DamageEvent struct {
	VictimID   string
	AttackerID string
	Hazard     string
	Amount     int
	Shielded   bool
	Eliminated bool
}

// moveTarget validates a forward move and returns the destination cell. Ship
// stacking is allowed: another ship on the target never blocks movement, only
// walls and the arena edge do.
func moveTarget(w *world, ship *Spaceship) (Position, error) {
	target := ship.Position.Add(ship.Rotation.Vector())
	if !target.InBounds(w.width, w.height) || w.isWall(target) {
		return Position{}, ErrIllegalMove
	}
	return target, nil
}

// resolveLaserCell settles a laser arriving at cell. It reports whether the
// beam survives: walls and the arena edge absorb it, a mine detonates against
// it (both are destroyed), and an eligible ship other than the owner takes
// the hit. A shielded ship still consumes the beam without losing lives.
func resolveLaserCell(w *world, l *Laser, cell Position, damage int, now time.Time, eligible map[string]struct{}) (bool, []DamageEvent) {
	if !cell.InBounds(w.width, w.height) || w.isWall(cell) {
		return false, nil
	}

	for i, m := range w.mines {
		if m.Position == cell {
			w.mines = append(w.mines[:i], w.mines[i+1:]...)
			return false, nil
		}
	}

	// Own-laser immunity: a beam passes through its firer, so target
	// selection skips the owner before falling back on roster order.
	var ship *Spaceship
	for _, id := range w.order {
		if id == l.OwnerID {
			continue
		}
		if _, ok := eligible[id]; !ok {
			continue
		}
		if s := w.ships[id]; s != nil && s.Position == cell {
			ship = s
			break
		}
	}
	if ship == nil {
		return true, nil
	}

	shielded := ship.Shielded(now)
	ship.ApplyDamage(damage, now)
	return false, []DamageEvent{{
		VictimID:   ship.ID,
		AttackerID: l.OwnerID,
		Hazard:     HazardLaser,
		Amount:     damage,
		Shielded:   shielded,
		Eliminated: !shielded && !ship.Active,
	}}
}

// stepLasers advances every laser one cell in creation order and drops the
// ones that hit something or ran out of travel budget.
func stepLasers(w *world, damage int, now time.Time, eligible map[string]struct{}) []DamageEvent {
	var events []DamageEvent
	n := 0
	for _, l := range w.lasers {
		next := l.Position.Add(l.Rotation.Vector())
		survives, evs := resolveLaserCell(w, l, next, damage, now, eligible)
		events = append(events, evs...)
		l.Remaining--
		if !survives || l.Remaining <= 0 {
			continue
		}
		l.Position = next
		w.lasers[n] = l
		n++
	}
	w.lasers = w.lasers[:n]
	return events
}

// checkMines detonates every mine that shares a cell with an eligible ship.
// The mine is consumed even when the ship's shield soaks the damage.
func checkMines(w *world, damage int, now time.Time, eligible map[string]struct{}) []DamageEvent {
	var events []DamageEvent
	n := 0
	for _, m := range w.mines {
		ship := w.shipAt(m.Position, eligible)
		if ship == nil {
			w.mines[n] = m
			n++
			continue
		}
		shielded := ship.Shielded(now)
		ship.ApplyDamage(damage, now)
		events = append(events, DamageEvent{
			VictimID:   ship.ID,
			Hazard:     HazardMine,
			Amount:     damage,
			Shielded:   shielded,
			Eliminated: !shielded && !ship.Active,
		})
	}
	w.mines = w.mines[:n]
	return events
}
