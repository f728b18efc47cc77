package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/dropfour/internal/domain"
)

const writeWait = 10 * time.Second

// Client pairs a socket with its write lock; gorilla allows one
// concurrent writer per connection.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *Client) send(message domain.ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

func (c *Client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ConnectionManager tracks the sockets subscribed to each game.
type ConnectionManager struct {
	// gameID → subscribers
	games map[string]map[*websocket.Conn]*Client
	mu    sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		games: make(map[string]map[*websocket.Conn]*Client),
	}
}

// AddConnection subscribes conn to gameID.
func (cm *ConnectionManager) AddConnection(gameID string, conn *websocket.Conn) *Client {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	subs, exists := cm.games[gameID]
	if !exists {
		subs = make(map[*websocket.Conn]*Client)
		cm.games[gameID] = subs
	}
	c := &Client{conn: conn}
	subs[conn] = c
	return c
}

// RemoveConnection unsubscribes and closes conn.
func (cm *ConnectionManager) RemoveConnection(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	subs, exists := cm.games[gameID]
	if !exists {
		return
	}
	if _, ok := subs[conn]; ok {
		conn.Close()
		delete(subs, conn)
	}
	if len(subs) == 0 {
		delete(cm.games, gameID)
	}
}

// Count returns how many sockets watch gameID.
func (cm *ConnectionManager) Count(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}

// Broadcast sends message to every subscriber of gameID in order. A socket
// that fails to take the write is closed; its read loop then unsubscribes it.
func (cm *ConnectionManager) Broadcast(gameID string, message domain.ServerMessage) {
	cm.mu.RLock()
	subs := make([]*Client, 0, len(cm.games[gameID]))
	for _, c := range cm.games[gameID] {
		subs = append(subs, c)
	}
	cm.mu.RUnlock()

	for _, c := range subs {
		if err := c.send(message); err != nil {
			log.Printf("[WS] Write to game %s failed: %v", gameID, err)
			c.conn.Close()
		}
	}
}

// CloseAll drops every socket, used on shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for gameID, subs := range cm.games {
		for conn := range subs {
			conn.Close()
		}
		delete(cm.games, gameID)
	}
}
