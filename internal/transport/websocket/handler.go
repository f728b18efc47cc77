package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/service/game"
	"github.com/iamasit07/dropfour/internal/transport/http/middleware"
	"github.com/iamasit07/dropfour/pkg/auth"
	"github.com/iamasit07/dropfour/pkg/uid"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Seats          middleware.SeatValidator
	Upgrader       websocket.Upgrader
}

// NewHandler creates a new WebSocket handler with dependencies
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, seats middleware.SeatValidator) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Seats:          seats,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.IsOriginAllowed(origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket subscribes the caller to the game named by ?game_id=.
// Anyone may watch; moves need a seat token in the message.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Query("game_id")
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id is required"})
		return
	}

	if !uid.IsGameID(gameID) {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrGameNotFound.Error()})
		return
	}
	if _, err := h.SessionManager.Snapshot(c.Request.Context(), gameID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrGameNotFound.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	// subscribe before reading the state so no move falls between the two
	client := h.ConnManager.AddConnection(gameID, conn)
	log.Printf("[WS] Connection opened for game %s (%d watching)", gameID, h.ConnManager.Count(gameID))

	state, err := h.SessionManager.Snapshot(context.Background(), gameID)
	if err != nil {
		client.send(errorMessage(gameID, err.Error()))
		h.ConnManager.RemoveConnection(gameID, conn)
		return
	}
	client.send(domain.ServerMessage{Type: domain.MsgGameState, GameID: gameID, State: &state})
	h.handleConnection(gameID, client)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(gameID string, client *Client) {
	conn := client.conn
	done := make(chan struct{})

	defer func() {
		close(done)
		h.ConnManager.RemoveConnection(gameID, conn)
		log.Printf("[WS] Connection closed for game %s", gameID)
	}()

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Client disconnected unexpectedly: %v", err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			client.send(errorMessage(gameID, "invalid message"))
			continue
		}

		h.processMessage(gameID, client, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(gameID string, client *Client, msg domain.ClientMessage) {
	switch msg.Type {
	case domain.MsgRequestState:
		state, err := h.SessionManager.Snapshot(context.Background(), gameID)
		if err != nil {
			client.send(errorMessage(gameID, err.Error()))
			return
		}
		client.send(domain.ServerMessage{Type: domain.MsgGameState, GameID: gameID, State: &state})

	case domain.MsgMakeMove:
		session, seat, ok := h.authorize(gameID, client, msg.Token)
		if !ok {
			return
		}
		if msg.Column == nil {
			client.send(errorMessage(gameID, "column is required"))
			return
		}
		// applied moves reach this socket through the broadcast
		if _, err := session.HandleMove(seat, *msg.Column); err != nil {
			client.send(errorMessage(gameID, err.Error()))
		}

	case domain.MsgRematch:
		session, _, ok := h.authorize(gameID, client, msg.Token)
		if !ok {
			return
		}
		session.Rematch()

	default:
		client.send(errorMessage(gameID, "unknown message type"))
	}
}

// authorize resolves the session, resuming it from the cache if needed, and the seat the token grants,
// reporting failures to the client.
func (h *Handler) authorize(gameID string, client *Client, token string) (*game.GameSession, auth.Seat, bool) {
	session, err := h.SessionManager.ResumeSession(context.Background(), gameID)
	if err != nil {
		client.send(errorMessage(gameID, err.Error()))
		return nil, "", false
	}

	claims, err := h.Seats.Validate(token, gameID)
	if err != nil {
		client.send(errorMessage(gameID, "invalid seat token"))
		return nil, "", false
	}
	return session, claims.Seat, true
}

func errorMessage(gameID, message string) domain.ServerMessage {
	return domain.ServerMessage{Type: domain.MsgError, GameID: gameID, Message: message}
}
