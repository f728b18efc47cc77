package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/service/game"
	"github.com/iamasit07/dropfour/internal/transport/http/middleware"
	"github.com/iamasit07/dropfour/pkg/httputil"
)

type GameHandler struct {
	SessionManager *game.SessionManager
	SecureCookies  bool
	SeatTokenTTL   time.Duration
}

func NewGameHandler(sm *game.SessionManager, secureCookies bool, seatTokenTTL time.Duration) *GameHandler {
	return &GameHandler{SessionManager: sm, SecureCookies: secureCookies, SeatTokenTTL: seatTokenTTL}
}

type createGameRequest struct {
	Mode       game.Mode `json:"mode"`
	Difficulty string    `json:"difficulty"`
}

type createGameResponse struct {
	GameID string       `json:"gameId"`
	Token  string       `json:"token"`
	State  domain.State `json:"state"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

// CreateGame starts a local or bot game and hands back the seat token.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Mode == "" {
		req.Mode = game.ModeLocal
	}

	session, token, err := h.SessionManager.CreateSession(req.Mode, req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}

	httputil.SetSeatCookie(c.Writer, session.GameID, token, int(h.SeatTokenTTL.Seconds()), h.SecureCookies)
	c.JSON(http.StatusCreated, createGameResponse{
		GameID: session.GameID,
		Token:  token,
		State:  session.State(),
	})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	state, err := h.SessionManager.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// MakeMove answers 200 with the unchanged state when the column is full or
// the game is already decided.
func (h *GameHandler) MakeMove(c *gin.Context) {
	session, err := h.SessionManager.ResumeSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	seat, _ := middleware.SeatFromContext(c)
	state, err := session.HandleMove(seat, *req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) Rematch(c *gin.Context) {
	session, err := h.SessionManager.ResumeSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Rematch())
}

func (h *GameHandler) Resign(c *gin.Context) {
	session, err := h.SessionManager.ResumeSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	seat, _ := middleware.SeatFromContext(c)
	state, err := session.Resign(seat)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
