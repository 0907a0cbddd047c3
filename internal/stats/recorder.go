// Package stats tracks per-match player performance, persists finished
// matches to SQLite and renders a post-game score chart.
package stats

import (
	"log"
	"sync"
	"time"

	"space-arena/internal/game"
)

// Scoring weights. Survival is worth a third of a point per second; landing
// laser hits pays, losing lives costs, outliving everyone pays a bonus.
const (
	survivalDivisor = 3.0
	hitPoints       = 5.0
	lifePenalty     = 5.0
	survivorBonus   = 25.0
)

// Score computes the final score for one player.
func Score(secondsSurvived float64, laserHits, livesLost int, lastSurvivor bool) float64 {
	s := secondsSurvived/survivalDivisor + hitPoints*float64(laserHits) - lifePenalty*float64(livesLost)
	if lastSurvivor {
		s += survivorBonus
	}
	return s
}

// playerStats accumulates one player's numbers while the match runs.
type playerStats struct {
	playerID  string
	name      string
	joinedAt  time.Time
	leftAt    time.Time // zero while still in play
	laserHits int
	livesLost int
}

// PlayerResult is one finalized row of a match.
type PlayerResult struct {
	PlayerID        string
	Name            string
	SecondsSurvived float64
	LaserHits       int
	LivesLost       int
	LastSurvivor    bool
	Score           float64
}

// MatchResult is one finished match.
type MatchResult struct {
	StartedAt  time.Time
	EndedAt    time.Time
	SurvivorID string
	Players    []PlayerResult
}

// Recorder listens to engine callbacks and turns a finished match into a
// stored MatchResult plus a rendered score chart. All handlers run on the
// engine's callback path, so they must stay cheap; persistence happens once,
// at game over.
type Recorder struct {
	mu         sync.Mutex
	store      *Store // nil disables persistence
	chartDir   string // empty disables chart rendering
	clock      func() time.Time
	players    map[string]*playerStats
	matchStart time.Time

	lastResult *MatchResult
}

// NewRecorder creates a recorder. Either output can be disabled independently.
func NewRecorder(store *Store, chartDir string) *Recorder {
	return &Recorder{
		store:    store,
		chartDir: chartDir,
		clock:    time.Now,
		players:  make(map[string]*playerStats),
	}
}

// Attach subscribes the recorder to every engine callback it needs. Call
// before Engine.Start.
func (rec *Recorder) Attach(e *game.Engine) {
	e.OnRegister = rec.HandleRegister
	e.OnUnregister = rec.HandleUnregister
	e.OnDamage = rec.HandleDamage
	e.OnElimination = rec.HandleElimination
	e.OnGameOver = rec.HandleGameOver
	e.OnReset = rec.HandleReset
}

// HandleRegister starts tracking a player. The first registration of a match
// marks the match start.
func (rec *Recorder) HandleRegister(playerID, name string) {
	now := rec.clock()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.players) == 0 {
		rec.matchStart = now
	}
	rec.players[playerID] = &playerStats{
		playerID: playerID,
		name:     name,
		joinedAt: now,
	}
}

// HandleUnregister freezes the survival clock for a player that left.
func (rec *Recorder) HandleUnregister(playerID string) {
	now := rec.clock()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if p, ok := rec.players[playerID]; ok && p.leftAt.IsZero() {
		p.leftAt = now
	}
}

// HandleDamage credits the attacker and debits the victim. Shield-soaked
// damage costs nothing and earns nothing.
func (rec *Recorder) HandleDamage(ev game.DamageEvent) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if ev.Shielded {
		return
	}
	if p, ok := rec.players[ev.VictimID]; ok {
		p.livesLost += ev.Amount
	}
	if ev.Hazard == game.HazardLaser && ev.AttackerID != "" {
		if p, ok := rec.players[ev.AttackerID]; ok {
			p.laserHits++
		}
	}
}

// HandleElimination freezes the survival clock for an eliminated player.
func (rec *Recorder) HandleElimination(ev game.DamageEvent) {
	now := rec.clock()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if p, ok := rec.players[ev.VictimID]; ok && p.leftAt.IsZero() {
		p.leftAt = now
	}
}

// HandleGameOver finalizes the match, persists it and renders the chart.
func (rec *Recorder) HandleGameOver(survivorID string) {
	now := rec.clock()
	rec.mu.Lock()
	result := rec.finalizeLocked(survivorID, now)
	rec.lastResult = &result
	rec.mu.Unlock()

	if rec.store != nil {
		if _, err := rec.store.SaveMatch(result); err != nil {
			log.Printf("⚠️ Stats save failed: %v", err)
		}
	}
	if rec.chartDir != "" {
		path, err := RenderScoreChart(rec.chartDir, result)
		if err != nil {
			log.Printf("⚠️ Score chart failed: %v", err)
		} else {
			log.Printf("📈 Score chart written to %s", path)
		}
	}
}

// HandleReset drops all in-flight tracking for a fresh match.
func (rec *Recorder) HandleReset() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.players = make(map[string]*playerStats)
	rec.matchStart = time.Time{}
}

// LastResult returns the most recently finished match, or nil.
func (rec *Recorder) LastResult() *MatchResult {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.lastResult
}

func (rec *Recorder) finalizeLocked(survivorID string, end time.Time) MatchResult {
	result := MatchResult{
		StartedAt:  rec.matchStart,
		EndedAt:    end,
		SurvivorID: survivorID,
		Players:    make([]PlayerResult, 0, len(rec.players)),
	}
	for _, p := range rec.players {
		leftAt := p.leftAt
		if leftAt.IsZero() {
			leftAt = end
		}
		survived := leftAt.Sub(p.joinedAt).Seconds()
		isSurvivor := p.playerID == survivorID && survivorID != ""
		result.Players = append(result.Players, PlayerResult{
			PlayerID:        p.playerID,
			Name:            p.name,
			SecondsSurvived: survived,
			LaserHits:       p.laserHits,
			LivesLost:       p.livesLost,
			LastSurvivor:    isSurvivor,
			Score:           Score(survived, p.laserHits, p.livesLost, isSurvivor),
		})
	}
	return result
}
