package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"casino-service/internal/config"
	"casino-service/internal/repo"
	"casino-service/internal/service/game"
	"casino-service/internal/service/session"
	"casino-service/internal/service/wallet"
	"casino-service/internal/ws"
	"casino-service/pkg/auth"
	"casino-service/pkg/utils/random"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Type string          `json:"type"`
	Seq  int64           `json:"seq"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = config.Default()

	hub := ws.NewHub()
	games := game.NewService(nil, random.Seeded(1))
	sessions := session.NewService(repo.NewMemoryStore(), games, wallet.NewService(10000), session.WithView(hub))

	r := gin.New()
	r.GET("/ws/session", ws.NewHandler(sessions, hub).HandleSessionWS)
	srv := httptest.NewServer(r)

	token, _, err := auth.GenerateToken("ws-player")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestSessionSocketPushesState(t *testing.T) {
	conn, closeAll := dial(t)
	defer closeAll()

	first := readFrame(t, conn)
	require.Equal(t, "state", first.Type)
	var st session.State
	require.NoError(t, json.Unmarshal(first.Data, &st))
	assert.Equal(t, "ws-player", st.Key)
	assert.Equal(t, session.ScreenMenu, st.Screen)

	require.NoError(t, conn.WriteJSON(gin.H{"type": "select", "game": "slots"}))
	pushed := readFrame(t, conn)
	require.Equal(t, "state", pushed.Type)
	require.NoError(t, json.Unmarshal(pushed.Data, &st))
	assert.Equal(t, "slots", st.Game)
	assert.Equal(t, session.ScreenBetting, st.Screen)

	require.NoError(t, conn.WriteJSON(gin.H{"type": "play", "amount": "lots"}))
	failed := readFrame(t, conn)
	assert.Equal(t, "error", failed.Type)
	assert.Contains(t, string(failed.Data), "invalid bet")
}

func TestSessionSocketRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = config.Default()
	hub := ws.NewHub()
	sessions := session.NewService(repo.NewMemoryStore(), game.NewService(nil, random.Seeded(1)), wallet.NewService(0))

	r := gin.New()
	r.GET("/ws/session", ws.NewHandler(sessions, hub).HandleSessionWS)

	req := httptest.NewRequest(http.MethodGet, "/ws/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
