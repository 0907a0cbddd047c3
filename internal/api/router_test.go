package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"space-arena/internal/game"
)

func newTestRouter(t *testing.T, limiter *PlayerRateLimiter) http.Handler {
	t.Helper()
	engine := game.NewEngine(game.DefaultConfig())
	return NewRouter(RouterConfig{
		Engine:         engine,
		RateLimiter:    limiter,
		DisableLogging: true,
	})
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := postJSON(t, h, "/register", map[string]string{"player_id": "a", "name": "Pilot"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var view game.StateView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.Players["a"].Name != "Pilot" {
		t.Errorf("name = %q, want %q", view.Players["a"].Name, "Pilot")
	}
	if view.Players["a"].Lives != 5 {
		t.Errorf("lifes = %d, want 5", view.Players["a"].Lives)
	}

	t.Run("duplicate id conflicts", func(t *testing.T) {
		rec := postJSON(t, h, "/register", map[string]string{"player_id": "a"})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("missing player_id rejected", func(t *testing.T) {
		rec := postJSON(t, h, "/register", map[string]string{"name": "Nobody"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestCapacityEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	for i := 0; i < 4; i++ {
		rec := postJSON(t, h, "/register", map[string]string{"player_id": fmt.Sprintf("p%d", i)})
		if rec.Code != http.StatusOK {
			t.Fatalf("register p%d status = %d", i, rec.Code)
		}
	}
	rec := postJSON(t, h, "/register", map[string]string{"player_id": "p5"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestUnknownPlayerEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)
	for _, path := range []string{"/move", "/rotate", "/fire", "/shield", "/unregister"} {
		body := map[string]string{"player_id": "ghost"}
		if path == "/rotate" {
			body["direction"] = "left"
		}
		rec := postJSON(t, h, path, body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestRotateValidation(t *testing.T) {
	h := newTestRouter(t, nil)
	postJSON(t, h, "/register", map[string]string{"player_id": "a"})

	rec := postJSON(t, h, "/rotate", map[string]string{"player_id": "a", "direction": "backwards"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec = postJSON(t, h, "/rotate", map[string]string{"player_id": "a", "direction": "right"})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestIllegalMoveEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	postJSON(t, h, "/register", map[string]string{"player_id": "a"})

	// Spawn is mid-arena facing up; nine moves reach the top border, the
	// tenth hits the wall.
	moves := 0
	for i := 0; i < 20; i++ {
		rec := postJSON(t, h, "/move", map[string]string{"player_id": "a"})
		if rec.Code == http.StatusBadRequest {
			break
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("move %d status = %d", i, rec.Code)
		}
		moves++
	}
	if moves != 9 {
		t.Errorf("moves before the wall = %d, want 9", moves)
	}
}

func TestShieldEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	postJSON(t, h, "/register", map[string]string{"player_id": "a"})

	rec := postJSON(t, h, "/shield", map[string]string{"player_id": "a"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	rec = postJSON(t, h, "/shield", map[string]string{"player_id": "a"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("second shield status = %d, want 400", rec.Code)
	}
}

func TestStateAndPlayersEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)
	postJSON(t, h, "/register", map[string]string{"player_id": "a"})

	rec := getPath(t, h, "/state")
	if rec.Code != http.StatusOK {
		t.Fatalf("/state status = %d", rec.Code)
	}
	var state game.StateView
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(state.Walls) == 0 {
		t.Error("state should carry the wall layout")
	}

	rec = getPath(t, h, "/players")
	if rec.Code != http.StatusOK {
		t.Fatalf("/players status = %d", rec.Code)
	}
	var players game.PlayersView
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("decode players: %v", err)
	}
	if _, ok := players.Players["a"]; !ok {
		t.Error("players view missing registered player")
	}
}

func TestEnvironmentEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	postJSON(t, h, "/register", map[string]string{"player_id": "a"})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"ok default radius", "/environment?player_id=a", http.StatusOK},
		{"ok explicit radius", "/environment?player_id=a&radius=3", http.StatusOK},
		{"missing player_id", "/environment", http.StatusBadRequest},
		{"unknown player", "/environment?player_id=ghost", http.StatusNotFound},
		{"bad radius", "/environment?player_id=a&radius=zero", http.StatusBadRequest},
		{"negative radius", "/environment?player_id=a&radius=-2", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getPath(t, h, tt.path)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRateLimitedEndpoint(t *testing.T) {
	limiter := NewPlayerRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             2,
		CleanupInterval:   time.Minute,
	})
	defer limiter.Stop()
	h := newTestRouter(t, limiter)

	postJSON(t, h, "/register", map[string]string{"player_id": "a"})
	postJSON(t, h, "/rotate", map[string]string{"player_id": "a", "direction": "left"})

	rec := postJSON(t, h, "/rotate", map[string]string{"player_id": "a", "direction": "left"})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	// Other players are unaffected.
	rec = postJSON(t, h, "/register", map[string]string{"player_id": "b"})
	if rec.Code != http.StatusOK {
		t.Errorf("player b status = %d, want 200", rec.Code)
	}
}
