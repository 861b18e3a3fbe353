package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/redlion/court/internal/config"
	"github.com/redlion/court/internal/game"
	"github.com/redlion/court/internal/logging"
	"github.com/redlion/court/internal/middleware"
	"github.com/redlion/court/internal/ws"
)

// securityHeaders wraps a handler with common security response headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// GameManager starts a room for every pair the hub matches.
type GameManager struct {
	hub      *ws.Hub
	bounds   game.Bounds
	tickRate int
	log      *zap.Logger
}

func (gm *GameManager) CreateRoom(p1, p2 *ws.Conn) {
	room, err := game.NewRoom(p1, p2, gm.bounds, gm.tickRate, gm.log)
	if err != nil {
		gm.log.Error("create room", zap.Error(err))
		p1.Close()
		p2.Close()
		gm.hub.RoomEnded()
		return
	}
	room.OnStrike = func(game.Side) { gm.hub.CountStrike() }
	room.Start(context.Background())
	go func() {
		<-room.Done()
		gm.hub.RoomEnded()
	}()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	bounds := game.NewBounds(cfg.CourtHalfWidth, cfg.CourtHalfLength)
	if err := bounds.Validate(); err != nil {
		return err
	}

	limiter := middleware.NewIPRateLimiter(cfg.MaxConnsPerIP, cfg.MsgRate, time.Second)
	defer limiter.Close()

	manager := &GameManager{bounds: bounds, tickRate: cfg.TickRate, log: log}
	hub := ws.NewHub(manager, limiter, cfg.AllowedOrigins, log)
	manager.hub = hub

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hub.Stats())
	})

	// Static files with no-cache headers (prevents stale JS in browser)
	fs := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fs.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           securityHeaders(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down")
		server.Close()
	}()

	log.Info("court server starting",
		zap.String("addr", server.Addr),
		zap.String("static", cfg.StaticDir),
		zap.Int("tickRate", cfg.TickRate))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("server stopped")
	return nil
}
