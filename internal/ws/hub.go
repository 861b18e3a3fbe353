package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/redlion/court/internal/middleware"
)

const maxActiveRooms = 100

// sanitizeNickname validates and cleans a nickname.
// Strips invalid chars, enforces 2-12 rune length, ensures valid UTF-8.
func sanitizeNickname(raw string) string {
	if !utf8.ValidString(raw) {
		return "Player"
	}
	cleaned := []rune{}
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_' || r == '-' || r == ' ' {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) < 2 {
		return "Player"
	}
	if len(cleaned) > 12 {
		cleaned = cleaned[:12]
	}
	return string(cleaned)
}

// RoomCreator starts a match between two paired connections. p1 serves
// from the bottom half.
type RoomCreator interface {
	CreateRoom(p1, p2 *Conn)
}

// HubStats holds live server metrics.
type HubStats struct {
	ActiveRooms      int64  `json:"activeRooms"`
	TotalConnections uint64 `json:"totalConnections"`
	WaitingPlayers   int    `json:"waitingPlayers"`
	Strikes          uint64 `json:"strikes"`
}

type Hub struct {
	mu      sync.Mutex
	waiting *Conn
	creator RoomCreator
	nextID  atomic.Uint64

	activeRooms      atomic.Int64
	totalConnections atomic.Uint64
	strikes          atomic.Uint64

	limiter        *middleware.IPRateLimiter
	originPatterns []string
	log            *zap.Logger
}

func NewHub(creator RoomCreator, limiter *middleware.IPRateLimiter, originPatterns []string, log *zap.Logger) *Hub {
	return &Hub{
		creator:        creator,
		limiter:        limiter,
		originPatterns: originPatterns,
		log:            log,
	}
}

// SetCreator wires the room factory after construction.
func (h *Hub) SetCreator(creator RoomCreator) {
	h.mu.Lock()
	h.creator = creator
	h.mu.Unlock()
}

// Stats returns a snapshot of current server metrics.
func (h *Hub) Stats() HubStats {
	h.mu.Lock()
	w := 0
	if h.waiting != nil {
		w = 1
	}
	h.mu.Unlock()
	return HubStats{
		ActiveRooms:      h.activeRooms.Load(),
		TotalConnections: h.totalConnections.Load(),
		WaitingPlayers:   w,
		Strikes:          h.strikes.Load(),
	}
}

// RoomEnded decrements the active room counter. Call when a room goroutine exits.
func (h *Hub) RoomEnded() {
	h.activeRooms.Add(-1)
}

// CountStrike records a hit or serve in any room.
func (h *Hub) CountStrike() {
	h.strikes.Add(1)
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	codec, err := CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ip := middleware.RealIP(r)
	if h.limiter != nil && !h.limiter.ConnectAllowed(ip) {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		acceptOpts.OriginPatterns = h.originPatterns
	}

	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		if h.limiter != nil {
			h.limiter.Disconnect(ip)
		}
		h.log.Warn("ws accept", zap.String("ip", ip), zap.Error(err))
		return
	}

	// Input messages are tiny
	ws.SetReadLimit(1024)

	h.totalConnections.Add(1)
	id := fmt.Sprintf("player-%d", h.nextID.Add(1))
	conn := NewConn(ws, codec, id, ip, h.limiter, h.log)
	conn.Nickname = sanitizeNickname(r.URL.Query().Get("name"))
	h.log.Info("new connection",
		zap.String("conn", id),
		zap.String("name", conn.Nickname),
		zap.String("ip", ip),
		zap.String("codec", codec.Name()),
		zap.Uint64("total", h.totalConnections.Load()))

	// Use background context so connection lives beyond HTTP handler
	go conn.WriteLoop(context.Background())

	go func() {
		<-conn.Done()
		if h.limiter != nil {
			h.limiter.Disconnect(ip)
		}
	}()

	h.tryMatch(conn)

	// The handler must outlive the match or the TCP connection drops.
	<-conn.Done()
	h.log.Info("connection closed", zap.String("conn", id))
}

func (h *Hub) tryMatch(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.waiting == nil {
		h.waiting = conn
		h.log.Info("waiting for opponent", zap.String("conn", conn.ID))

		go func() {
			<-conn.Done()
			h.mu.Lock()
			if h.waiting == conn {
				h.waiting = nil
				h.log.Info("disconnected while waiting", zap.String("conn", conn.ID))
			}
			h.mu.Unlock()
		}()
		return
	}

	if h.activeRooms.Load() >= maxActiveRooms {
		h.log.Warn("max rooms reached", zap.String("conn", conn.ID))
		go func() {
			conn.ws.Close(websocket.StatusTryAgainLater, "server full")
			conn.Close()
		}()
		return
	}

	if h.waiting.Nickname == conn.Nickname {
		suffix := "(2)"
		runes := []rune(conn.Nickname)
		maxBase := 12 - len([]rune(suffix))
		if len(runes) > maxBase {
			runes = runes[:maxBase]
		}
		conn.Nickname = string(runes) + suffix
	}

	opponent := h.waiting
	h.waiting = nil

	h.activeRooms.Add(1)
	h.log.Info("matched",
		zap.String("bottom", opponent.ID),
		zap.String("top", conn.ID),
		zap.Int64("rooms", h.activeRooms.Load()))
	h.creator.CreateRoom(opponent, conn)
}
