package config

import (
	"testing"
	"time"

	"space-arena/internal/game"
)

func TestDefaultArenaLayout(t *testing.T) {
	cfg := DefaultArena()

	if cfg.Width != 30 || cfg.Height != 20 {
		t.Fatalf("grid = %dx%d, want 30x20", cfg.Width, cfg.Height)
	}

	wallSet := make(map[game.Position]struct{}, len(cfg.Walls))
	for _, w := range cfg.Walls {
		wallSet[w] = struct{}{}
	}
	// Border corners plus one obstacle from each cluster.
	for _, p := range []game.Position{{X: 0, Y: 0}, {X: 29, Y: 19}, {X: 6, Y: 3}, {X: 23, Y: 12}} {
		if _, ok := wallSet[p]; !ok {
			t.Errorf("wall %v missing from layout", p)
		}
	}

	if len(cfg.Mines) != len(minefield) {
		t.Errorf("mines = %d, want %d", len(cfg.Mines), len(minefield))
	}

	// No mine may sit inside a wall.
	for _, m := range cfg.Mines {
		if _, ok := wallSet[m]; ok {
			t.Errorf("mine %v overlaps a wall", m)
		}
	}

	// The spawn area around the center must stay clear.
	center := game.Position{X: cfg.Width / 2, Y: cfg.Height / 2}
	for _, off := range []game.Position{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: -3, Y: 0}, {X: 0, Y: 3}} {
		cell := center.Add(off)
		if _, ok := wallSet[cell]; ok {
			t.Errorf("spawn cell %v blocked by a wall", cell)
		}
		for _, m := range cfg.Mines {
			if m == cell {
				t.Errorf("spawn cell %v blocked by a mine", cell)
			}
		}
	}
}

func TestArenaFromEnvOverrides(t *testing.T) {
	t.Setenv("INITIAL_LIVES", "9")
	t.Setenv("SHIELD_SECONDS", "7")
	t.Setenv("TICK_RATE", "12")

	cfg := ArenaFromEnv()
	if cfg.InitialLives != 9 {
		t.Errorf("InitialLives = %d, want 9", cfg.InitialLives)
	}
	if cfg.ShieldDuration != 7*time.Second {
		t.Errorf("ShieldDuration = %v, want 7s", cfg.ShieldDuration)
	}
	if cfg.TickRate != 12 {
		t.Errorf("TickRate = %d, want 12", cfg.TickRate)
	}
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("EVENT_LOG_PATH", "/tmp/replay.jsonl")

	cfg := ServerFromEnv()
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port)
	}
	if cfg.EventLogPath != "/tmp/replay.jsonl" {
		t.Errorf("EventLogPath = %q", cfg.EventLogPath)
	}
}

func TestStatsDisabled(t *testing.T) {
	t.Setenv("STATS_DISABLED", "true")
	cfg := StatsFromEnv()
	if cfg.DBPath != "" || cfg.ChartDir != "" {
		t.Errorf("disabled stats config = %+v, want empty paths", cfg)
	}
}
