package game

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Turn is a rotation request direction.
type Turn string

const (
	TurnLeft  Turn = "left"
	TurnRight Turn = "right"
)

// ParseTurn validates a wire rotation direction.
func ParseTurn(s string) (Turn, bool) {
	switch Turn(s) {
	case TurnLeft, TurnRight:
		return Turn(s), true
	}
	return "", false
}

// spawnOffsets are candidate spawn cells relative to the arena center, tried
// in order: center, right of center, left of center, below center.
var spawnOffsets = []Position{{0, 0}, {3, 0}, {-3, 0}, {0, 3}}

// Engine owns the authoritative world and serializes every mutation behind
// one write lock: each action observes a fully consistent pre-state and
// commits a fully consistent post-state, or leaves the world untouched.
// Reads take the read lock and never observe a world mid-mutation.
//
// Time-driven effects (laser motion, shield expiry, mine re-evaluation) are
// driven by a fixed-period background ticker started with Start; player
// actions never advance time. Tests call Advance directly with a synthetic
// clock for deterministic replays.
type Engine struct {
	mu  sync.RWMutex
	cfg Config
	w   *world

	// clock is injectable so tests can replay time-based effects
	// deterministically.
	clock func() time.Time

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	events *EventLog

	// Callbacks fire synchronously after a mutation commits, outside the
	// lock. Set them before Start.
	OnRegister    func(playerID, name string)
	OnUnregister  func(playerID string)
	OnDamage      func(ev DamageEvent)
	OnElimination func(ev DamageEvent)
	OnGameOver    func(survivorID string)
	OnReset       func()
}

// NewEngine creates an engine for the given arena configuration. Zero-valued
// config fields fall back to the gameplay defaults.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:      cfg,
		w:        newWorld(cfg),
		clock:    time.Now,
		stopChan: make(chan struct{}),
		events:   NewEventLog(),
	}
}

// Start launches the advance driver: a ticker stepping time-driven effects
// TickRate times per second. A stopped engine may be started again.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))
	ticker, stop := e.ticker, e.stopChan
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				e.Advance(e.clock())
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Arena engine started at %d steps/s", e.cfg.TickRate)
}

// Stop halts the advance driver.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Arena engine stopped")
}

// StartEventLog begins appending engine events to the given JSONL file.
func (e *Engine) StartEventLog(path string) error {
	return e.events.Start(path)
}

// StopEventLog flushes and closes the event log.
func (e *Engine) StopEventLog() {
	e.events.Stop()
}

// Register adds a player to the roster. An omitted name defaults to
// "Player N". Registering after game over starts a fresh match first.
func (e *Engine) Register(playerID, name string) (StateView, error) {
	now := e.clock()
	e.mu.Lock()

	wasReset := false
	if e.w.gameOver {
		e.w = newWorld(e.cfg)
		wasReset = true
	}

	if _, ok := e.w.ships[playerID]; ok {
		e.mu.Unlock()
		return StateView{}, ErrDuplicateID
	}
	if e.w.activeCount() >= e.cfg.MaxPlayers {
		e.mu.Unlock()
		return StateView{}, ErrCapacity
	}
	spawn, ok := e.findSpawnLocked()
	if !ok {
		e.mu.Unlock()
		return StateView{}, ErrCapacity
	}

	if name == "" {
		name = fmt.Sprintf("Player %d", len(e.w.ships)+1)
	}
	ship := NewSpaceship(playerID, name, spawn, e.cfg.InitialLives, now)
	e.w.ships[playerID] = ship
	e.w.order = append(e.w.order, playerID)
	if e.w.activeCount() >= 2 {
		e.w.everPaired = true
	}
	view := e.stateViewLocked(now)
	e.mu.Unlock()

	if wasReset {
		e.emit(EventReset, "", nil)
		if e.OnReset != nil {
			e.OnReset()
		}
	}
	e.emit(EventRegister, playerID, RegisterPayload{Name: name, Spawn: spawn.Coords()})
	if e.OnRegister != nil {
		e.OnRegister(playerID, name)
	}
	return view, nil
}

// Unregister removes a player from the roster and re-evaluates the win
// condition for those remaining.
func (e *Engine) Unregister(playerID string) (StateView, error) {
	now := e.clock()
	e.mu.Lock()
	if e.w.gameOver {
		e.mu.Unlock()
		return StateView{}, ErrGameOver
	}
	if _, ok := e.w.ships[playerID]; !ok {
		e.mu.Unlock()
		return StateView{}, ErrNotFound
	}
	e.w.removeShip(playerID)
	ended, survivor := e.evaluateGameOverLocked()
	view := e.stateViewLocked(now)
	e.mu.Unlock()

	e.emit(EventUnregister, playerID, nil)
	if e.OnUnregister != nil {
		e.OnUnregister(playerID)
	}
	e.dispatchGameOver(ended, survivor)
	return view, nil
}

// Move steps the player one cell along its heading, then settles any mine on
// the destination.
func (e *Engine) Move(playerID string) (StateView, error) {
	now := e.clock()
	e.mu.Lock()
	ship, err := e.playableShipLocked(playerID)
	if err != nil {
		e.mu.Unlock()
		return StateView{}, err
	}
	target, err := moveTarget(e.w, ship)
	if err != nil {
		e.mu.Unlock()
		return StateView{}, err
	}
	ship.Position = target
	events := checkMines(e.w, e.cfg.MineDamage, now, e.w.activeIDs())
	ended, survivor := e.evaluateGameOverLocked()
	view := e.stateViewLocked(now)
	e.mu.Unlock()

	e.emit(EventMove, playerID, MovePayload{To: target.Coords()})
	e.dispatchDamage(events)
	e.dispatchGameOver(ended, survivor)
	return view, nil
}

// Rotate turns the player 90 degrees left or right.
func (e *Engine) Rotate(playerID string, turn Turn) (StateView, error) {
	now := e.clock()
	e.mu.Lock()
	ship, err := e.playableShipLocked(playerID)
	if err != nil {
		e.mu.Unlock()
		return StateView{}, err
	}
	switch turn {
	case TurnLeft:
		ship.Rotation = ship.Rotation.TurnLeft()
	case TurnRight:
		ship.Rotation = ship.Rotation.TurnRight()
	default:
		e.mu.Unlock()
		return StateView{}, ErrInvalidTurn
	}
	// Snapshot under the lock; the ship may be mutated again the moment it
	// is released.
	rotation := int(ship.Rotation)
	view := e.stateViewLocked(now)
	e.mu.Unlock()

	e.emit(EventRotate, playerID, RotatePayload{Turn: string(turn), Rotation: rotation})
	return view, nil
}

// Fire spawns a laser one cell ahead of the player, inheriting its heading.
// The spawn cell resolves immediately so a beam never rests inside a wall:
// firing point-blank at a wall wastes the shot, point-blank at a ship lands
// the hit at once.
func (e *Engine) Fire(playerID string) (StateView, error) {
	now := e.clock()
	e.mu.Lock()
	ship, err := e.playableShipLocked(playerID)
	if err != nil {
		e.mu.Unlock()
		return StateView{}, err
	}
	heading := ship.Rotation
	spawn := ship.Position.Add(heading.Vector())
	laser := NewLaser(spawn, heading, playerID, e.cfg.LaserRange)
	survives, events := resolveLaserCell(e.w, laser, spawn, e.cfg.LaserDamage, now, e.w.activeIDs())
	if survives {
		e.w.lasers = append(e.w.lasers, laser)
	}
	ended, survivor := e.evaluateGameOverLocked()
	view := e.stateViewLocked(now)
	e.mu.Unlock()

	e.emit(EventFire, playerID, FirePayload{From: spawn.Coords(), Direction: int(heading)})
	e.dispatchDamage(events)
	e.dispatchGameOver(ended, survivor)
	return view, nil
}

// Shield raises the player's one-time shield.
func (e *Engine) Shield(playerID string) (StateView, error) {
	now := e.clock()
	e.mu.Lock()
	ship, err := e.playableShipLocked(playerID)
	if err != nil {
		e.mu.Unlock()
		return StateView{}, err
	}
	if err := ship.ActivateShield(now, e.cfg.ShieldDuration); err != nil {
		e.mu.Unlock()
		return StateView{}, err
	}
	view := e.stateViewLocked(now)
	e.mu.Unlock()

	e.emit(EventShield, playerID, nil)
	return view, nil
}

// Advance applies one discrete update of the time-driven effects: shield
// expiry, mine re-evaluation, then laser motion, in that fixed order.
func (e *Engine) Advance(now time.Time) {
	e.mu.Lock()
	if e.w.gameOver {
		e.mu.Unlock()
		return
	}
	for _, s := range e.w.ships {
		s.ExpireShield(now)
	}
	eligible := e.w.activeIDs()
	events := checkMines(e.w, e.cfg.MineDamage, now, eligible)
	events = append(events, stepLasers(e.w, e.cfg.LaserDamage, now, eligible)...)
	ended, survivor := e.evaluateGameOverLocked()
	e.mu.Unlock()

	e.dispatchDamage(events)
	e.dispatchGameOver(ended, survivor)
}

// Reset discards the current match and rebuilds the configured world.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.w = newWorld(e.cfg)
	e.mu.Unlock()

	e.emit(EventReset, "", nil)
	if e.OnReset != nil {
		e.OnReset()
	}
}

// State returns the full world snapshot.
func (e *Engine) State() StateView {
	now := e.clock()
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stateViewLocked(now)
}

// PlayerState returns per-player public attributes only, no hazards.
func (e *Engine) PlayerState() PlayersView {
	now := e.clock()
	e.mu.RLock()
	defer e.mu.RUnlock()
	players := make(map[string]PlayerView, len(e.w.ships))
	for id, s := range e.w.ships {
		players[id] = playerView(s, now)
	}
	return PlayersView{Players: players}
}

// EnvironmentState returns hazards translated relative to the player and
// filtered to the Chebyshev radius (inclusive). A non-positive radius uses
// the configured default.
func (e *Engine) EnvironmentState(playerID string, radius int) (EnvironmentView, error) {
	if radius <= 0 {
		radius = e.cfg.EnvRadius
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	ship, ok := e.w.ships[playerID]
	if !ok {
		return EnvironmentView{}, ErrNotFound
	}
	return e.environmentViewLocked(ship.Position, radius), nil
}

// Counts reports registered players, active players and in-flight lasers
// for the monitoring gauges.
func (e *Engine) Counts() (players, active, lasers int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.w.ships), e.w.activeCount(), len(e.w.lasers)
}

// playableShipLocked enforces the game-over and liveness rules shared by all
// in-game actions. Caller holds the write lock.
func (e *Engine) playableShipLocked(playerID string) (*Spaceship, error) {
	if e.w.gameOver {
		return nil, ErrGameOver
	}
	ship, ok := e.w.ships[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	if !ship.Active {
		return nil, ErrInactivePlayer
	}
	return ship, nil
}

// findSpawnLocked picks the first candidate spawn cell that is neither a
// wall nor occupied by another ship.
func (e *Engine) findSpawnLocked() (Position, bool) {
	center := Position{e.cfg.Width / 2, e.cfg.Height / 2}
	for _, off := range spawnOffsets {
		cell := center.Add(off)
		if !cell.InBounds(e.cfg.Width, e.cfg.Height) || e.w.isWall(cell) {
			continue
		}
		occupied := false
		for _, s := range e.w.ships {
			if s.Position == cell {
				occupied = true
				break
			}
		}
		if !occupied {
			return cell, true
		}
	}
	return Position{}, false
}

// evaluateGameOverLocked flips the game-over flag once the active roster has
// thinned to at most one ship, after at least two were active together.
func (e *Engine) evaluateGameOverLocked() (bool, string) {
	if e.w.gameOver || !e.w.everPaired {
		return false, ""
	}
	if e.w.activeCount() > 1 {
		return false, ""
	}
	e.w.gameOver = true
	return true, e.w.lastActive()
}

func (e *Engine) emit(t EventType, playerID string, payload interface{}) {
	if e.events != nil {
		e.events.Emit(t, playerID, payload)
	}
}

func (e *Engine) dispatchDamage(events []DamageEvent) {
	for _, ev := range events {
		e.emit(EventDamage, ev.VictimID, DamagePayload{
			VictimID:   ev.VictimID,
			AttackerID: ev.AttackerID,
			Hazard:     ev.Hazard,
			Amount:     ev.Amount,
			Shielded:   ev.Shielded,
		})
		if e.OnDamage != nil {
			e.OnDamage(ev)
		}
		if ev.Eliminated {
			e.emit(EventElimination, ev.VictimID, DamagePayload{
				VictimID:   ev.VictimID,
				AttackerID: ev.AttackerID,
				Hazard:     ev.Hazard,
				Amount:     ev.Amount,
			})
			if e.OnElimination != nil {
				e.OnElimination(ev)
			}
		}
	}
}

func (e *Engine) dispatchGameOver(ended bool, survivor string) {
	if !ended {
		return
	}
	e.emit(EventGameOver, survivor, GameOverPayload{Survivor: survivor})
	if e.OnGameOver != nil {
		e.OnGameOver(survivor)
	}
	log.Printf("🏁 Game over, survivor: %q", survivor)
}
