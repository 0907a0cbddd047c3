package agent

import (
	"fmt"
	"math/rand"

	"space-arena/internal/game"
)

// Action is one decision a policy can make per turn.
type Action string

const (
	ActionMove        Action = "move"
	ActionRotateLeft  Action = "rotate_left"
	ActionRotateRight Action = "rotate_right"
	ActionFire        Action = "fire"
	ActionShield      Action = "shield"
)

// Observation is what a policy sees before deciding. The environment is
// centered on the agent; Heading is the agent's own tracked rotation, since
// the environment view does not include it.
type Observation struct {
	Env     game.EnvironmentView
	Heading game.Rotation
	Step    int
}

// Policy decides the next action from an observation.
type Policy interface {
	Next(obs Observation) Action
}

// NewPolicy builds a policy by name: "random", "spinner" or "wallflower".
func NewPolicy(name string, rng *rand.Rand) (Policy, error) {
	switch name {
	case "random":
		return &RandomPolicy{rng: rng}, nil
	case "spinner":
		return &SpinnerPolicy{}, nil
	case "wallflower":
		return &WallFollowerPolicy{rng: rng}, nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}

// RandomPolicy picks weighted random actions, movement-heavy, with a single
// shield once lasers show up close.
type RandomPolicy struct {
	rng      *rand.Rand
	shielded bool
}

func (p *RandomPolicy) Next(obs Observation) Action {
	if !p.shielded && len(obs.Env.Lasers) > 0 {
		p.shielded = true
		return ActionShield
	}
	switch v := p.rng.Intn(10); {
	case v < 5:
		return ActionMove
	case v < 7:
		return ActionFire
	case v < 9:
		return ActionRotateRight
	default:
		return ActionRotateLeft
	}
}

// SpinnerPolicy camps in place, sweeping fire through all four headings.
type SpinnerPolicy struct {
	step int
}

func (p *SpinnerPolicy) Next(obs Observation) Action {
	p.step++
	if p.step%2 == 0 {
		return ActionRotateRight
	}
	return ActionFire
}

// WallFollowerPolicy moves forward until something blocks the next cell, then
// turns. Mines ahead count as blocked. Fires on a fixed cadence.
type WallFollowerPolicy struct {
	rng *rand.Rand
}

func (p *WallFollowerPolicy) Next(obs Observation) Action {
	if obs.Step%5 == 4 {
		return ActionFire
	}
	ahead := obs.Heading.Vector().Coords()
	for _, w := range obs.Env.Walls {
		if w == ahead {
			return p.turn()
		}
	}
	for _, m := range obs.Env.Mines {
		if m == ahead {
			return p.turn()
		}
	}
	return ActionMove
}

func (p *WallFollowerPolicy) turn() Action {
	if p.rng.Intn(2) == 0 {
		return ActionRotateLeft
	}
	return ActionRotateRight
}
