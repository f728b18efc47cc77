package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type GameArchive interface {
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error)
}

// HistoryHandler serves the archive. Archive is nil when no database is
// configured.
type HistoryHandler struct {
	Archive GameArchive
}

func NewHistoryHandler(archive GameArchive) *HistoryHandler {
	return &HistoryHandler{Archive: archive}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games, err := h.Archive.ListRecentGames(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if games == nil {
		games = []domain.GameRecord{}
	}
	c.JSON(http.StatusOK, games)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	game, err := h.Archive.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}
