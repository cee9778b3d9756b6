package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/domain"
)

type fakeTrending struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTrending) Trending(context.Context) ([]domain.TrendingBooth, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return []domain.TrendingBooth{{BoothID: 1, Name: "떡볶이", RecentVisits: int64(f.calls), Score: float64(f.calls)}}, nil
}

type liveGauge struct {
	mu sync.Mutex
	n  int
}

func (g *liveGauge) SetLiveClients(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = n
}

func (g *liveGauge) get() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func TestLeaderboardHandler_Trending(t *testing.T) {
	h := NewLeaderboardHandler(&fakeTrending{}, nil, time.Second, nil)
	router := gin.New()
	router.GET("/leaderboard/trending", h.HandleTrending)

	w := doJSON(router, http.MethodGet, "/leaderboard/trending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"booth_id":1`)
}

func TestLeaderboardHandler_Live(t *testing.T) {
	gauge := &liveGauge{}
	h := NewLeaderboardHandler(&fakeTrending{}, gauge, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	router := gin.New()
	router.GET("/leaderboard/live", h.HandleLive)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/leaderboard/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readMessage := func() LiveMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg LiveMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	snapshot := readMessage()
	assert.Equal(t, "trending", snapshot.Type)
	require.Len(t, snapshot.Booths, 1)

	pushed := readMessage()
	require.Len(t, pushed.Booths, 1)
	assert.Greater(t, pushed.Booths[0].Score, snapshot.Booths[0].Score)

	assert.Eventually(t, func() bool { return gauge.get() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return gauge.get() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLeaderboardHandler_OriginCheck(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(allowed))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(denied))

	assert.True(t, check(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.True(t, originChecker(nil)(denied))
}
