package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality: labels are action names and coarse
// results, never player ids.
var (
	actionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_actions_total",
		Help: "Player actions processed, by action and result",
	}, []string{"action", "result"}) // result: "ok" or "rejected"

	actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arena_action_duration_seconds",
		Help:    "Time spent handling one player action",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
	}, []string{"action"})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_player_count",
		Help: "Registered players",
	})

	activePlayerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_active_player_count",
		Help: "Players still alive",
	})

	laserCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_laser_count",
		Help: "Lasers in flight",
	})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_rate_limited_total",
		Help: "Actions rejected by the per-player rate limiter",
	})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active state-feed connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "State frames broadcast to the feed",
	})
)

// ObservabilityConfig configures the debug server.
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string // must stay on localhost unless explicitly overridden
}

// DefaultObservabilityConfig returns safe defaults.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer starts the internal observability server with pprof,
// Prometheus metrics and a health check. It binds to localhost only unless
// ALLOW_DEBUG_EXTERNAL=true.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("⚠️ Debug server forced to localhost")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	go func() {
		log.Printf("📊 Debug server on %s (pprof, /metrics, /health)", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

// RecordAction records one handled player action.
func RecordAction(action string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	actionTotal.WithLabelValues(action, result).Inc()
	actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordRateLimited counts a boundary rejection.
func RecordRateLimited() {
	rateLimitedTotal.Inc()
}

// UpdateWorldGauges refreshes the world-size gauges.
func UpdateWorldGauges(players, active, lasers int) {
	playerCount.Set(float64(players))
	activePlayerCount.Set(float64(active))
	laserCount.Set(float64(lasers))
}

// UpdateWSConnections updates the state-feed connection count.
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages counts one broadcast frame.
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
