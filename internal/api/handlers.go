package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"space-arena/internal/game"
)

type handlers struct {
	engine  EngineInterface
	limiter *PlayerRateLimiter
}

// actionRequest is the body shared by all mutating endpoints. Only register
// reads name, only rotate reads direction.
type actionRequest struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusForError maps engine rule violations to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, game.ErrCapacity):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// decodeAction parses the request body and applies the per-player rate limit.
// Returns false after writing the response when the request must not reach
// the engine.
func (h *handlers) decodeAction(w http.ResponseWriter, r *http.Request) (actionRequest, bool) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return req, false
	}
	if h.limiter != nil && !h.limiter.Allow(req.PlayerID) {
		RecordRateLimited()
		writeError(w, http.StatusTooManyRequests, "too many actions, slow down")
		return req, false
	}
	return req, true
}

// respond writes the action outcome and records the metrics for it.
func (h *handlers) respond(w http.ResponseWriter, action string, start time.Time, view game.StateView, err error) {
	RecordAction(action, err, time.Since(start))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	UpdateWorldGauges(h.engine.Counts())
	writeJSON(w, http.StatusOK, view)
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.decodeAction(w, r)
	if !ok {
		return
	}
	view, err := h.engine.Register(req.PlayerID, req.Name)
	h.respond(w, "register", start, view, err)
}

func (h *handlers) unregister(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.decodeAction(w, r)
	if !ok {
		return
	}
	view, err := h.engine.Unregister(req.PlayerID)
	h.respond(w, "unregister", start, view, err)
}

func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.decodeAction(w, r)
	if !ok {
		return
	}
	view, err := h.engine.Move(req.PlayerID)
	h.respond(w, "move", start, view, err)
}

func (h *handlers) rotate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.decodeAction(w, r)
	if !ok {
		return
	}
	turn, valid := game.ParseTurn(req.Direction)
	if !valid {
		writeError(w, http.StatusBadRequest, game.ErrInvalidTurn.Error())
		return
	}
	view, err := h.engine.Rotate(req.PlayerID, turn)
	h.respond(w, "rotate", start, view, err)
}

func (h *handlers) fire(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.decodeAction(w, r)
	if !ok {
		return
	}
	view, err := h.engine.Fire(req.PlayerID)
	h.respond(w, "fire", start, view, err)
}

func (h *handlers) shield(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.decodeAction(w, r)
	if !ok {
		return
	}
	view, err := h.engine.Shield(req.PlayerID)
	h.respond(w, "shield", start, view, err)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.State())
}

func (h *handlers) players(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.PlayerState())
}

func (h *handlers) environment(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	radius := 0
	if raw := r.URL.Query().Get("radius"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "radius must be a positive integer")
			return
		}
		radius = v
	}
	view, err := h.engine.EnvironmentState(playerID, radius)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}
