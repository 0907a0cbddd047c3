// Package agent contains a typed client for the arena API and a set of
// simple autonomous policies that play the game over it.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"space-arena/internal/game"
)

// APIError is a non-2xx response from the arena server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("arena API %d: %s", e.Status, e.Message)
}

// Client is a typed HTTP client bound to one player id.
type Client struct {
	baseURL  string
	playerID string
	httpc    *http.Client
}

// NewClient creates a client for the server at baseURL, acting as playerID.
func NewClient(baseURL, playerID string) *Client {
	return &Client{
		baseURL:  baseURL,
		playerID: playerID,
		httpc:    &http.Client{Timeout: 5 * time.Second},
	}
}

// PlayerID returns the bound player id.
func (c *Client) PlayerID() string { return c.playerID }

type actionBody struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Register joins the game under the given display name.
func (c *Client) Register(ctx context.Context, name string) (game.StateView, error) {
	return c.action(ctx, "/register", actionBody{PlayerID: c.playerID, Name: name})
}

// Unregister leaves the game.
func (c *Client) Unregister(ctx context.Context) (game.StateView, error) {
	return c.action(ctx, "/unregister", actionBody{PlayerID: c.playerID})
}

// Move steps one cell along the current heading.
func (c *Client) Move(ctx context.Context) (game.StateView, error) {
	return c.action(ctx, "/move", actionBody{PlayerID: c.playerID})
}

// Rotate turns 90 degrees; direction is "left" or "right".
func (c *Client) Rotate(ctx context.Context, direction string) (game.StateView, error) {
	return c.action(ctx, "/rotate", actionBody{PlayerID: c.playerID, Direction: direction})
}

// Fire shoots a laser along the current heading.
func (c *Client) Fire(ctx context.Context) (game.StateView, error) {
	return c.action(ctx, "/fire", actionBody{PlayerID: c.playerID})
}

// Shield raises the one-time shield.
func (c *Client) Shield(ctx context.Context) (game.StateView, error) {
	return c.action(ctx, "/shield", actionBody{PlayerID: c.playerID})
}

// State fetches the full world snapshot.
func (c *Client) State(ctx context.Context) (game.StateView, error) {
	var view game.StateView
	err := c.get(ctx, "/state", &view)
	return view, err
}

// Environment fetches the hazards around this player. A zero radius uses the
// server default.
func (c *Client) Environment(ctx context.Context, radius int) (game.EnvironmentView, error) {
	q := url.Values{"player_id": {c.playerID}}
	if radius > 0 {
		q.Set("radius", strconv.Itoa(radius))
	}
	var view game.EnvironmentView
	err := c.get(ctx, "/environment?"+q.Encode(), &view)
	return view, err
}

// action posts one mutating request. A rate-limited response backs off once
// before giving up.
func (c *Client) action(ctx context.Context, path string, body actionBody) (game.StateView, error) {
	var view game.StateView
	for attempt := 0; ; attempt++ {
		err := c.post(ctx, path, body, &view)
		var apiErr *APIError
		if attempt == 0 && errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
			select {
			case <-time.After(200 * time.Millisecond):
				continue
			case <-ctx.Done():
				return view, ctx.Err()
			}
		}
		return view, err
	}
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Error == "" {
			eb.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: eb.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
