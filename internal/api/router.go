package api

import (
	"encoding/json"
	"fmt"
	"strconv"

	"casino-service/internal/middleware"
	"casino-service/internal/service"
	"casino-service/internal/service/game"
	"casino-service/internal/service/session"
	"casino-service/internal/ws"
	pkgAuth "casino-service/pkg/auth"
	appErr "casino-service/pkg/errors"
	"casino-service/pkg/logger"
	"casino-service/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container, hub *ws.Hub) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services.Session, hub)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/casino/v1")
	{
		v1.POST("/session", handler.CreateSession)
		v1.GET("/games", handler.ListGames)
		v1.GET("/ws/session", wsHandler.HandleSessionWS)

		sessionGroup := v1.Group("/")
		sessionGroup.Use(middleware.SessionRequired())
		{
			sessionGroup.GET("/state", handler.GetState)
			sessionGroup.GET("/history", handler.GetHistory)
			sessionGroup.POST("/menu", handler.BackToMenu)
			sessionGroup.POST("/games/:game/select", handler.SelectGame)
			sessionGroup.POST("/games/:game/play", handler.PlaySimple)
			sessionGroup.POST("/reset", handler.Reset)

			bj := sessionGroup.Group("/blackjack")
			{
				bj.POST("/bet", handler.PlaceBet)
				bj.POST("/hit", handler.Hit)
				bj.POST("/stand", handler.Stand)
				bj.POST("/double", handler.DoubleDown)
				bj.POST("/again", handler.PlayAnother)
			}
		}
	}
}

type betRequest struct {
	Amount json.RawMessage `json:"amount"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

type sessionResponse struct {
	Token    string        `json:"token"`
	ExpireAt int64         `json:"expireAt"`
	State    session.State `json:"state"`
}

// CreateSession resumes the session named by a valid bearer token, or starts a new one.
func (h *Handler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()

	var sess *session.Session
	var err error
	if key := h.tokenSessionKey(c); key != "" {
		sess, err = h.services.Session.Open(ctx, key)
	} else {
		sess, err = h.services.Session.Create(ctx)
	}
	if err != nil {
		response.Fail(c, err)
		return
	}

	token, expireAt, err := pkgAuth.GenerateToken(sess.Key())
	if err != nil {
		logger.Log.Error("generate session token failed", zap.Error(err))
		response.Fail(c, err)
		return
	}
	response.Success(c, sessionResponse{
		Token:    token,
		ExpireAt: expireAt.Unix(),
		State:    sess.State(),
	})
}

func (h *Handler) tokenSessionKey(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	token, err := middleware.BearerToken(header)
	if err != nil {
		return ""
	}
	claims, err := pkgAuth.ParseSessionToken(token)
	if err != nil {
		return ""
	}
	return claims.SessionKey
}

func (h *Handler) ListGames(c *gin.Context) {
	response.Success(c, gin.H{"items": h.services.Session.Games()})
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.services.Session.Open(c.Request.Context(), middleware.SessionKey(c))
	if err != nil {
		response.Fail(c, err)
		return nil, false
	}
	return sess, true
}

// reply writes the state document; on error the current state rides along with the message.
func reply(c *gin.Context, state session.State, err error) {
	if err != nil {
		response.JSON(c, response.StatusFor(err), state, err.Error())
		return
	}
	response.SuccessWithMsg(c, state, state.Message)
}

func (h *Handler) GetState(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, sess.State())
}

func (h *Handler) GetHistory(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	result, err := sess.History(c.Request.Context(), page, size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

func (h *Handler) BackToMenu(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	state, err := sess.BackToMenu(c.Request.Context())
	reply(c, state, err)
}

func (h *Handler) SelectGame(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	state, err := sess.SelectGame(c.Request.Context(), c.Param("game"))
	reply(c, state, err)
}

func (h *Handler) PlaceBet(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	amount, ok := bindAmount(c, sess)
	if !ok {
		return
	}
	state, err := sess.PlaceBet(c.Request.Context(), amount)
	reply(c, state, err)
}

func (h *Handler) Hit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	state, err := sess.Hit(c.Request.Context())
	reply(c, state, err)
}

func (h *Handler) Stand(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	state, err := sess.Stand(c.Request.Context())
	reply(c, state, err)
}

func (h *Handler) DoubleDown(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	state, err := sess.DoubleDown(c.Request.Context())
	reply(c, state, err)
}

func (h *Handler) PlayAnother(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	state, err := sess.PlayAnother(c.Request.Context())
	reply(c, state, err)
}

// PlaySimple selects the simple game named in the path if needed, then plays one round.
func (h *Handler) PlaySimple(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	kind := game.ParseKind(c.Param("game"))
	if !kind.IsSimple() {
		response.Fail(c, fmt.Errorf("%w: %s", appErr.ErrUnknownGame, c.Param("game")))
		return
	}
	amount, ok := bindAmount(c, sess)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if sess.State().Game != string(kind) {
		if state, err := sess.SelectGame(ctx, string(kind)); err != nil {
			reply(c, state, err)
			return
		}
	}
	state, err := sess.PlaySimple(ctx, amount)
	reply(c, state, err)
}

func (h *Handler) Reset(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Confirm = false
	}
	state, err := sess.Reset(c.Request.Context(), req.Confirm)
	reply(c, state, err)
}

func bindAmount(c *gin.Context, sess *session.Session) (int64, bool) {
	var req betRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Amount = nil
	}
	amount, err := game.ParseBetJSON(req.Amount)
	if err != nil {
		reply(c, sess.State(), err)
		return 0, false
	}
	return amount, true
}
