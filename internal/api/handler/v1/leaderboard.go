package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveSendBuffer = 16
)

type TrendingService interface {
	Trending(ctx context.Context) ([]domain.TrendingBooth, error)
}

type LiveObserver interface {
	SetLiveClients(n int)
}

type LiveMessage struct {
	Type        string                 `json:"type"`
	Booths      []domain.TrendingBooth `json:"booths"`
	GeneratedAt time.Time              `json:"generated_at"`
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// LeaderboardHandler serves the trending leaderboard, once over HTTP and as a periodic
// websocket push. Run owns the client set; handlers only talk to it through channels.
type LeaderboardHandler struct {
	svc      TrendingService
	observer LiveObserver
	interval time.Duration
	upgrader websocket.Upgrader

	clients      map[*liveClient]struct{}
	clientsMutex sync.RWMutex
	register     chan *liveClient
	unregister   chan *liveClient
	done         chan struct{}
}

func NewLeaderboardHandler(svc TrendingService, observer LiveObserver, interval time.Duration, allowedOrigins []string) *LeaderboardHandler {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &LeaderboardHandler{
		svc:      svc,
		observer: observer,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients:    make(map[*liveClient]struct{}),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		done:       make(chan struct{}),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Run pushes a fresh leaderboard to every client each interval until ctx is done.
func (h *LeaderboardHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.clientsMutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
			h.observe()
			return

		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = struct{}{}
			h.clientsMutex.Unlock()
			h.observe()

			if message, err := h.snapshot(ctx); err == nil {
				h.deliver(client, message)
			}

		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
			h.observe()

		case <-ticker.C:
			if h.Clients() == 0 {
				continue
			}

			message, err := h.snapshot(ctx)
			if err != nil {
				continue
			}
			h.clientsMutex.RLock()
			clients := make([]*liveClient, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.clientsMutex.RUnlock()
			for _, client := range clients {
				h.deliver(client, message)
			}
		}
	}
}

// deliver drops clients too slow to keep up. Only Run calls it.
func (h *LeaderboardHandler) deliver(client *liveClient, message []byte) {
	select {
	case client.send <- message:
	default:
		h.clientsMutex.Lock()
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
		}
		h.clientsMutex.Unlock()
		h.observe()
	}
}

func (h *LeaderboardHandler) snapshot(ctx context.Context) ([]byte, error) {
	booths, err := h.svc.Trending(ctx)
	if err != nil {
		zap.L().Error("live leaderboard refresh failed", zap.Error(err))
		return nil, err
	}

	message, err := json.Marshal(LiveMessage{
		Type:        "trending",
		Booths:      booths,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal -> %w", err)
	}

	return message, nil
}

func (h *LeaderboardHandler) observe() {
	if h.observer != nil {
		h.observer.SetLiveClients(h.Clients())
	}
}

func (h *LeaderboardHandler) Clients() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// HandleTrending godoc
// @Summary      Trending booths
// @Description  Recent visits plus a weighted, smoothed rating; booths with neither are left out.
// @Tags         leaderboard
// @Produce      json
// @Success      200      {array}    domain.TrendingBooth
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /leaderboard/trending [get]
// @Security     BearerAuth
func (h *LeaderboardHandler) HandleTrending(ctx *gin.Context) {
	booths, err := h.svc.Trending(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleTrending -> h.svc.Trending", err))
		return
	}

	ctx.JSON(http.StatusOK, booths)
}

// HandleLive godoc
// @Summary      Live trending leaderboard over websocket
// @Description  Sends a snapshot on connect, then one every configured interval.
// @Tags         leaderboard
// @Produce      json
// @Success      101      {string}   string "Switching Protocols to WebSocket"
// @Failure      401      {object}   response.Err
// @Router       /leaderboard/live [get]
// @Security     BearerAuth
func (h *LeaderboardHandler) HandleLive(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{
		conn: conn,
		send: make(chan []byte, liveSendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer going away; clients never send anything meaningful.
func (c *liveClient) readPump(h *LeaderboardHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("live leaderboard client closed", zap.Error(err))
			}
			return
		}
	}
}
