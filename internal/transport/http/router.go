package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/dropfour/internal/transport/http/middleware"
)

type Router struct {
	Games     *GameHandler
	History   *HistoryHandler
	Watch     *WatchHandler
	Seats     middleware.SeatValidator
	WebSocket gin.HandlerFunc
}

// Engine builds the gin engine with every route mounted.
func (rt Router) Engine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/games", rt.Games.CreateGame)
		api.GET("/games/:id", rt.Games.GetGame)

		// Seat-token protected routes
		seated := api.Group("/games/:id")
		seated.Use(middleware.SeatAuthMiddleware(rt.Seats))
		seated.POST("/moves", rt.Games.MakeMove)
		seated.POST("/rematch", rt.Games.Rematch)
		seated.POST("/resign", rt.Games.Resign)

		api.GET("/watch", rt.Watch.GetLiveGames)
		api.GET("/history", rt.History.GetHistory)
		api.GET("/history/:id", rt.History.GetGameDetails)
	}

	if rt.WebSocket != nil {
		router.GET("/ws", rt.WebSocket)
	}

	return router
}
