package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"space-arena/internal/game"
)

// EngineInterface is the engine surface the HTTP layer depends on. Kept as an
// interface so router tests can swap in a scripted engine.
type EngineInterface interface {
	Register(playerID, name string) (game.StateView, error)
	Unregister(playerID string) (game.StateView, error)
	Move(playerID string) (game.StateView, error)
	Rotate(playerID string, turn game.Turn) (game.StateView, error)
	Fire(playerID string) (game.StateView, error)
	Shield(playerID string) (game.StateView, error)
	State() game.StateView
	PlayerState() game.PlayersView
	EnvironmentState(playerID string, radius int) (game.EnvironmentView, error)
	Counts() (players, active, lasers int)
}

// RouterConfig carries the dependencies for NewRouter. Building the router
// from explicit inputs keeps it a pure function, directly usable with
// httptest.
type RouterConfig struct {
	Engine      EngineInterface
	RateLimiter *PlayerRateLimiter
	Hub         *StateHub // nil disables the /ws endpoint

	CORSOrigins    []string
	DisableLogging bool
}

// NewRouter builds the public HTTP API.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handlers{engine: cfg.Engine, limiter: cfg.RateLimiter}

	r.Post("/register", h.register)
	r.Post("/unregister", h.unregister)
	r.Post("/move", h.move)
	r.Post("/rotate", h.rotate)
	r.Post("/fire", h.fire)
	r.Post("/shield", h.shield)

	r.Get("/state", h.state)
	r.Get("/players", h.players)
	r.Get("/environment", h.environment)

	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleUpgrade)
	}

	return r
}
