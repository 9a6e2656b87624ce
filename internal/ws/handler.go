package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"casino-service/internal/service/game"
	"casino-service/internal/service/session"
	pkgAuth "casino-service/pkg/auth"
	appErr "casino-service/pkg/errors"
	"casino-service/pkg/logger"
	"casino-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	sessions *session.Service
	hub      *Hub
}

func NewHandler(sessions *session.Service, hub *Hub) *Handler {
	return &Handler{sessions: sessions, hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the page may be served from a file or another port
	},
}

func (h *Handler) HandleSessionWS(c *gin.Context) {
	token, err := getTokenFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	claims, err := pkgAuth.ParseSessionToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	sess, err := h.sessions.Open(c.Request.Context(), claims.SessionKey)
	if err != nil {
		c.JSON(response.StatusFor(err), gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("New WebSocket connection", zap.String("session", sess.Key()))

	cl := newClient(conn, sess, h.hub)
	cl.run()
}

func getTokenFromRequest(c *gin.Context) (string, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token != "" {
		return token, nil
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
			if token != "" {
				return token, nil
			}
		}
	}
	return "", errors.New("missing token")
}

type IncomingMessage struct {
	Type    string          `json:"type"`
	Game    string          `json:"game,omitempty"`
	Amount  json.RawMessage `json:"amount,omitempty"`
	Confirm bool            `json:"confirm,omitempty"`
}

type client struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	sess      *session.Session
	hub       *Hub
	outbound  chan OutgoingMessage
	done      chan struct{}
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, sess *session.Session, hub *Hub) *client {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	return &client{
		conn:      conn,
		sess:      sess,
		hub:       hub,
		outbound:  hub.Subscribe(sess.Key()),
		done:      make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run() {
	go c.writePump()
	c.safeWrite(OutgoingMessage{Type: "state", Data: c.sess.State()})
	c.readPump()
}

func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.hub.Unsubscribe(c.sess.Key(), c.outbound)
		c.conn.Close()
	}()

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Log.Info("WS read error", zap.Error(err), zap.String("session", c.sess.Key()))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		var incoming IncomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.safeWrite(OutgoingMessage{Type: "error", Data: gin.H{"message": "invalid payload"}})
			continue
		}
		if incoming.Type == "" {
			continue
		}
		if err := c.handle(incoming); err != nil {
			c.safeWrite(OutgoingMessage{
				Type: "error",
				Data: gin.H{"message": fmt.Sprintf("action failed: %v", err), "state": c.sess.State()},
			})
		}
	}
}

// handle runs one page event. Successful actions reach the page through the hub.
func (c *client) handle(msg IncomingMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch msg.Type {
	case "rejoin":
		c.safeWrite(OutgoingMessage{Type: "state", Data: c.sess.State()})
	case "ping":
		c.safeWrite(OutgoingMessage{Type: "pong", Data: gin.H{"message": "pong"}})
	case "select":
		_, err = c.sess.SelectGame(ctx, msg.Game)
	case "menu", game.ActionLeave:
		_, err = c.sess.BackToMenu(ctx)
	case game.ActionBet:
		var amount int64
		if amount, err = game.ParseBetJSON(msg.Amount); err == nil {
			_, err = c.sess.PlaceBet(ctx, amount)
		}
	case game.ActionHit:
		_, err = c.sess.Hit(ctx)
	case game.ActionStand:
		_, err = c.sess.Stand(ctx)
	case game.ActionDouble:
		_, err = c.sess.DoubleDown(ctx)
	case game.ActionAgain:
		_, err = c.sess.PlayAnother(ctx)
	case "play":
		var amount int64
		if amount, err = game.ParseBetJSON(msg.Amount); err == nil {
			_, err = c.sess.PlaySimple(ctx, amount)
		}
	case "reset":
		_, err = c.sess.Reset(ctx, msg.Confirm)
	default:
		err = fmt.Errorf("%w: %s", appErr.ErrInvalidAction, msg.Type)
	}
	return err
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			if err := c.safeWriteErr(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) safeWrite(msg OutgoingMessage) {
	if err := c.safeWriteErr(msg); err != nil {
		logger.Log.Info("WS write error", zap.Error(err), zap.String("session", c.sess.Key()))
	}
}

func (c *client) safeWriteErr(msg OutgoingMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(msg)
}
