// Package config provides centralized configuration management.
// This is the single source of truth for arena layout and server settings;
// all other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"

	"space-arena/internal/game"
)

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// obstacleWalls is the default interior wall layout for the 30x20 grid.
var obstacleWalls = [][2]int{
	{6, 3}, {7, 3}, {8, 3},
	{10, 4}, {11, 5}, {12, 6},
	{14, 4}, {15, 4}, {16, 4},

	{20, 3}, {21, 3}, {22, 4}, {22, 5},
	{19, 6}, {18, 7}, {17, 8},

	{6, 9}, {7, 9}, {8, 10}, {9, 11},
	{10, 12}, {11, 12}, {12, 12},

	{14, 6}, {15, 6}, {16, 6}, {17, 6},
	{18, 11}, {19, 12}, {20, 13},

	{8, 15}, {9, 15}, {10, 15},
	{12, 16}, {13, 17}, {14, 17},

	{16, 16}, {17, 15}, {18, 15},
	{21, 14}, {22, 13}, {23, 12},
}

// minefield is the default mine layout.
var minefield = [][2]int{
	// Upper section
	{2, 2}, {13, 2}, {18, 2}, {25, 4},
	// Left corridor
	{3, 7}, {5, 11}, {4, 14},
	// Central areas
	{9, 7}, {13, 8}, {19, 9}, {24, 10},
	// Right corridor
	{26, 7}, {27, 11}, {25, 15},
	// Lower section
	{11, 14}, {17, 14}, {20, 16},
}

// DefaultArena returns the full arena configuration: border walls, interior
// obstacles and the minefield.
func DefaultArena() game.Config {
	cfg := game.DefaultConfig()
	walls := game.BorderWalls(cfg.Width, cfg.Height)
	for _, w := range obstacleWalls {
		walls = append(walls, game.Position{X: w[0], Y: w[1]})
	}
	cfg.Walls = walls
	for _, m := range minefield {
		cfg.Mines = append(cfg.Mines, game.Position{X: m[0], Y: m[1]})
	}
	return cfg
}

// ArenaFromEnv returns the arena configuration with environment variable
// overrides. Layout stays fixed; only the rule knobs are tunable.
func ArenaFromEnv() game.Config {
	cfg := DefaultArena()

	if v := getEnvInt("INITIAL_LIVES", 0); v > 0 {
		cfg.InitialLives = v
	}
	if v := getEnvInt("SHIELD_SECONDS", 0); v > 0 {
		cfg.ShieldDuration = time.Duration(v) * time.Second
	}
	if v := getEnvInt("LASER_RANGE", 0); v > 0 {
		cfg.LaserRange = v
	}
	if v := getEnvInt("TICK_RATE", 0); v > 0 {
		cfg.TickRate = v
	}
	if v := getEnvInt("ENV_RADIUS", 0); v > 0 {
		cfg.EnvRadius = v
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         8000,
		EventLogPath: "events.jsonl",
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if v := os.Getenv("EVENT_LOG_PATH"); v != "" {
		cfg.EventLogPath = v
	}

	return cfg
}

// =============================================================================
// STATS CONFIGURATION
// =============================================================================

// StatsConfig holds match statistics storage settings.
type StatsConfig struct {
	DBPath   string // SQLite database file, empty disables persistence
	ChartDir string // directory for post-game score charts, empty disables
}

// DefaultStats returns the default statistics configuration.
func DefaultStats() StatsConfig {
	return StatsConfig{
		DBPath:   "game_stats.db",
		ChartDir: "game_stats",
	}
}

// StatsFromEnv returns stats configuration with environment overrides.
func StatsFromEnv() StatsConfig {
	cfg := DefaultStats()

	if v := os.Getenv("STATS_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CHART_DIR"); v != "" {
		cfg.ChartDir = v
	}
	if os.Getenv("STATS_DISABLED") == "true" {
		cfg.DBPath = ""
		cfg.ChartDir = ""
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena  game.Config
	Server ServerConfig
	Stats  StatsConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Arena:  ArenaFromEnv(),
		Server: ServerFromEnv(),
		Stats:  StatsFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
