package agent

import (
	"math/rand"
	"testing"

	"space-arena/internal/game"
)

func TestNewPolicy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, name := range []string{"random", "spinner", "wallflower"} {
		if _, err := NewPolicy(name, rng); err != nil {
			t.Errorf("NewPolicy(%q) error = %v", name, err)
		}
	}
	if _, err := NewPolicy("genius", rng); err == nil {
		t.Error("unknown policy should fail")
	}
}

func TestSpinnerAlternates(t *testing.T) {
	p := &SpinnerPolicy{}
	obs := Observation{}
	seq := []Action{
		p.Next(obs), p.Next(obs), p.Next(obs), p.Next(obs),
	}
	want := []Action{ActionFire, ActionRotateRight, ActionFire, ActionRotateRight}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("step %d = %s, want %s", i, seq[i], want[i])
		}
	}
}

func TestWallFollowerAvoidsBlockedCell(t *testing.T) {
	p := &WallFollowerPolicy{rng: rand.New(rand.NewSource(1))}

	t.Run("open ahead moves", func(t *testing.T) {
		obs := Observation{Heading: game.HeadingUp}
		if got := p.Next(obs); got != ActionMove {
			t.Errorf("action = %s, want move", got)
		}
	})

	t.Run("wall ahead turns", func(t *testing.T) {
		obs := Observation{
			Heading: game.HeadingUp,
			Env:     game.EnvironmentView{Walls: [][2]int{{0, -1}}},
		}
		got := p.Next(obs)
		if got != ActionRotateLeft && got != ActionRotateRight {
			t.Errorf("action = %s, want a turn", got)
		}
	})

	t.Run("mine ahead turns", func(t *testing.T) {
		obs := Observation{
			Heading: game.HeadingRight,
			Env:     game.EnvironmentView{Mines: [][2]int{{1, 0}}},
		}
		got := p.Next(obs)
		if got != ActionRotateLeft && got != ActionRotateRight {
			t.Errorf("action = %s, want a turn", got)
		}
	})

	t.Run("fires on cadence", func(t *testing.T) {
		obs := Observation{Heading: game.HeadingUp, Step: 4}
		if got := p.Next(obs); got != ActionFire {
			t.Errorf("action = %s, want fire", got)
		}
	})
}

func TestRandomPolicyShieldsOnThreat(t *testing.T) {
	p := &RandomPolicy{rng: rand.New(rand.NewSource(1))}
	obs := Observation{Env: game.EnvironmentView{Lasers: [][2]int{{2, 0}}}}

	if got := p.Next(obs); got != ActionShield {
		t.Fatalf("first threatened action = %s, want shield", got)
	}
	// The one-time shield is never requested again.
	for i := 0; i < 20; i++ {
		if got := p.Next(obs); got == ActionShield {
			t.Fatal("shield requested twice")
		}
	}
}
