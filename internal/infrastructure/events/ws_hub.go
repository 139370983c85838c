package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	defaultSendBuffer = 64
	defaultWriteWait  = 10 * time.Second
)

// HubOption configures a WSHub
type HubOption func(*WSHub)

// WithSendBuffer sets how many messages may queue per client before the
// client is dropped.
func WithSendBuffer(n int) HubOption {
	return func(h *WSHub) { h.sendBuffer = n }
}

// WithWriteWait sets the deadline for a single write to a client.
func WithWriteWait(d time.Duration) HubOption {
	return func(h *WSHub) { h.writeWait = d }
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// WSHub fans out event messages to every connected WebSocket client.
// Each client has its own queue drained by a writer goroutine, so a slow
// client never stalls Broadcast.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]*wsClient
	sendBuffer int
	writeWait  time.Duration
}

// NewWSHub creates a new WebSocket hub
func NewWSHub(opts ...HubOption) *WSHub {
	h := &WSHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		sendBuffer: defaultSendBuffer,
		writeWait:  defaultWriteWait,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a connection to the broadcast set and starts its writer
func (h *WSHub) Register(conn *websocket.Conn) {
	client := &wsClient{
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}

	h.mu.Lock()
	h.clients[conn] = client
	h.mu.Unlock()

	go h.writePump(client)

	log.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("WebSocket connection registered")
}

// Unregister removes and closes a connection
func (h *WSHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.clients[conn]; exists {
		h.remove(client)
		log.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("WebSocket connection unregistered")
	}
}

// remove must be called with mu held for writing.
func (h *WSHub) remove(client *wsClient) {
	delete(h.clients, client.conn)
	close(client.send)
	client.conn.Close()
}

// ClientCount returns the number of registered connections
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues message for every client without blocking. Clients whose
// queue is full are dropped.
func (h *WSHub) Broadcast(message Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	var lagging []*websocket.Conn

	h.mu.RLock()
	for conn, client := range h.clients {
		select {
		case client.send <- data:
		default:
			lagging = append(lagging, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range lagging {
		log.Warn().Str("remote_addr", conn.RemoteAddr().String()).Msg("WebSocket client lagging, dropping")
		h.Unregister(conn)
	}
	return nil
}

func (h *WSHub) writePump(client *wsClient) {
	for data := range client.send {
		if err := client.conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
			h.Unregister(client.conn)
			return
		}
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Error().Err(err).Str("remote_addr", client.conn.RemoteAddr().String()).Msg("Failed to send event")
			h.Unregister(client.conn)
			return
		}
	}
}

// Close disconnects every client
func (h *WSHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		h.remove(client)
	}
}
