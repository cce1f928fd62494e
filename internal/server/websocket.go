package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/projectcard/internal/logging"
	"github.com/conneroisu/projectcard/internal/validation"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period. A missing pong within writeWait
	// ends the connection.
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 16
)

// UpdateMessage is sent to browsers over the live reload socket.
type UpdateMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

func reloadMessage() UpdateMessage {
	return UpdateMessage{Type: "reload", Timestamp: time.Now().UTC()}
}

// Client represents a WebSocket client
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	hub       *Hub
	closeOnce sync.Once
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub fans reload messages out to every connected browser.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	mutex      sync.RWMutex
	logger     logging.Logger
}

// NewHub creates a hub; call Run to start delivering messages.
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		logger:     logger.WithComponent("websocket"),
	}
}

// Run delivers messages until ctx is done or Close is called.
func (h *Hub) Run(ctx context.Context) {
	defer h.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug(ctx, "client connected", "clients", count)

		case client := <-h.unregister:
			h.remove(client)
			h.logger.Debug(ctx, "client disconnected", "clients", h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mutex.RUnlock()

			for _, client := range slow {
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mutex.Unlock()

	if ok {
		client.closeSend()
	}
}

// Broadcast queues msg for every connected client. Messages are dropped
// once the hub is closed or its queue is full.
func (h *Hub) Broadcast(msg UpdateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(context.Background(), err, "failed to marshal message")
		return
	}

	select {
	case <-h.done:
	case h.broadcast <- data:
	default:
		h.logger.Warn(context.Background(), nil, "broadcast queue full, dropping message", "type", msg.Type)
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and stops Run.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mutex.Lock()
		clients := h.clients
		h.clients = make(map[*Client]bool)
		h.mutex.Unlock()

		for client := range clients {
			client.closeSend()
		}
	})
}

func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	allowed := s.allowedOrigins()
	if err := validation.ValidateOrigin(r.Header.Get("Origin"), r.Host, allowed); err != nil {
		s.logger.Warn(r.Context(), err, "websocket origin rejected", "origin", r.Header.Get("Origin"))
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: allowed,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  s.hub,
	}

	if !s.hub.join(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	go client.writePump(s.logger)
	client.readPump()
}

// readPump drains incoming frames so pings are answered and closes are
// noticed; browsers never send anything meaningful.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := context.Background()
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump pumps messages to the websocket connection
func (c *Client) writePump(logger logging.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := context.Background()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusGoingAway, "")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				status := websocket.CloseStatus(err)
				if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
					logger.Debug(ctx, "websocket write failed", "error", err.Error())
				}
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
