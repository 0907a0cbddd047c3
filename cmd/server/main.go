package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"space-arena/internal/api"
	"space-arena/internal/config"
	"space-arena/internal/game"
	"space-arena/internal/stats"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("📋 Loaded .env file")
	}

	cfg := config.Load()

	engine := game.NewEngine(cfg.Arena)
	if cfg.Server.EventLogPath != "" {
		if err := engine.StartEventLog(cfg.Server.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		}
	}

	var store *stats.Store
	if cfg.Stats.DBPath != "" {
		var err error
		store, err = stats.OpenStore(cfg.Stats.DBPath)
		if err != nil {
			log.Printf("⚠️ Stats store disabled: %v", err)
		}
	}
	recorder := stats.NewRecorder(store, cfg.Stats.ChartDir)
	recorder.Attach(engine)

	engine.Start()

	api.StartDebugServer(api.DefaultObservabilityConfig())

	server := api.NewServer(engine, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("🛑 Received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("⚠️ Server error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Shutdown error: %v", err)
	}

	engine.Stop()
	engine.StopEventLog()
	if store != nil {
		store.Close()
	}
	log.Println("👋 Arena server stopped")
}
