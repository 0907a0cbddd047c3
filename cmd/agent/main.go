package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"space-arena/internal/agent"
)

func main() {
	var (
		server     = flag.String("server", "http://localhost:8000", "arena server base URL")
		playerID   = flag.String("id", "", "player id (default: generated)")
		name       = flag.String("name", "", "display name (default: assigned by server)")
		policyName = flag.String("policy", "random", "policy: random, spinner or wallflower")
		interval   = flag.Duration("interval", 300*time.Millisecond, "time between actions")
		radius     = flag.Int("radius", 0, "environment view radius (0 = server default)")
		seed       = flag.Int64("seed", 0, "random seed (0 = time-based)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	if *playerID == "" {
		*playerID = fmt.Sprintf("agent-%06d", rng.Intn(1_000_000))
	}

	policy, err := agent.NewPolicy(*policyName, rng)
	if err != nil {
		log.Fatalf("⚠️ %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	runner := &agent.Runner{
		Client:   agent.NewClient(*server, *playerID),
		Policy:   policy,
		Name:     *name,
		Interval: *interval,
		Radius:   *radius,
	}
	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("⚠️ Agent stopped: %v", err)
	}
}
