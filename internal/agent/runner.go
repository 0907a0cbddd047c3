package agent

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"space-arena/internal/game"
)

// Runner drives one policy against the server on a fixed cadence until the
// game ends, the player is eliminated or the context is cancelled.
type Runner struct {
	Client   *Client
	Policy   Policy
	Name     string
	Interval time.Duration
	Radius   int // 0 means server default
}

// Run registers, plays and unregisters. Returns nil on a normal game end.
func (r *Runner) Run(ctx context.Context) error {
	if _, err := r.Client.Register(ctx, r.Name); err != nil {
		return err
	}
	log.Printf("🤖 Agent %s registered", r.Client.PlayerID())

	heading := game.HeadingUp
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for step := 0; ; step++ {
		select {
		case <-ctx.Done():
			// Best effort: free the roster slot before leaving.
			leaveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			r.Client.Unregister(leaveCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
		}

		env, err := r.Client.Environment(ctx, r.Radius)
		if err != nil {
			if done, rerr := r.finished(err); done {
				return rerr
			}
			continue
		}
		if env.GameOver {
			log.Printf("🏁 Agent %s: game over", r.Client.PlayerID())
			return nil
		}

		action := r.Policy.Next(Observation{Env: env, Heading: heading, Step: step})
		switch action {
		case ActionMove:
			_, err = r.Client.Move(ctx)
		case ActionRotateLeft:
			_, err = r.Client.Rotate(ctx, "left")
			if err == nil {
				heading = heading.TurnLeft()
			}
		case ActionRotateRight:
			_, err = r.Client.Rotate(ctx, "right")
			if err == nil {
				heading = heading.TurnRight()
			}
		case ActionFire:
			_, err = r.Client.Fire(ctx)
		case ActionShield:
			_, err = r.Client.Shield(ctx)
		}
		if err != nil {
			if done, rerr := r.finished(err); done {
				return rerr
			}
			log.Printf("⚠️ Agent %s: %s rejected: %v", r.Client.PlayerID(), action, err)
		}
	}
}

// finished classifies an action error. Elimination and game over are normal
// endings; everything else keeps the loop running.
func (r *Runner) finished(err error) (bool, error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false, nil
	}
	switch apiErr.Status {
	case http.StatusNotFound:
		// Unknown id after a reset, nothing left to play.
		return true, err
	case http.StatusBadRequest:
		if apiErr.Message == game.ErrInactivePlayer.Error() {
			log.Printf("💀 Agent %s eliminated", r.Client.PlayerID())
			return true, nil
		}
		if apiErr.Message == game.ErrGameOver.Error() {
			log.Printf("🏁 Agent %s: game over", r.Client.PlayerID())
			return true, nil
		}
	}
	return false, nil
}
