package push

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"
	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/internal/view"
	"go.uber.org/zap"
)

const (
	FrameElement  = "element"
	FrameSnapshot = "snapshot"
)

const clientBuffer = 64

type Frame struct {
	Type     string         `json:"type"`
	Element  *view.Element  `json:"element,omitempty"`
	Elements []view.Element `json:"elements,omitempty"`
}

// Conn is the part of a websocket connection the hub needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans document changes out to every connected browser. A client that
// falls behind by more than its buffer is disconnected and must reconnect
// for a fresh snapshot.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	connected  atomic.Int64

	snapshot func() []view.Element
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

type Client struct {
	hub  *Hub
	conn Conn
	send chan []byte
}

func NewHub(doc *view.Document, m *metrics.Metrics, logger *zap.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		snapshot:   doc.Snapshot,
		metrics:    m,
		logger:     logger,
	}

	doc.Subscribe(h.Publish)
	return h
}

func NewClient(hub *Hub, conn Conn) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan []byte, clientBuffer)}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.drop(client)
		}
	}()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.connected.Add(1)
			if h.metrics != nil {
				h.metrics.PushClientConnected()
			}
			h.sendSnapshot(client)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case payload := <-h.broadcast:
			h.deliver(payload)
		case <-ctx.Done():
			h.logger.Info("push hub stopped", zap.Int("clients", len(h.clients)))
			return
		}
	}
}

// Clients is safe to call from any goroutine.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

// Register reports false when the hub has already stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		_ = client.conn.Close()
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues one changed element for every client.
func (h *Hub) Publish(el view.Element) {
	payload, err := json.Marshal(Frame{Type: FrameElement, Element: &el})
	if err != nil {
		h.logger.Error("push hub encode element", zap.String("element", el.ID), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

func (h *Hub) deliver(payload []byte) {
	for client := range h.clients {
		h.enqueue(client, payload)
	}
}

func (h *Hub) sendSnapshot(client *Client) {
	payload, err := json.Marshal(Frame{Type: FrameSnapshot, Elements: h.snapshot()})
	if err != nil {
		h.logger.Error("push hub encode snapshot", zap.Error(err))
		h.drop(client)
		return
	}

	h.enqueue(client, payload)
}

func (h *Hub) enqueue(client *Client, payload []byte) {
	select {
	case client.send <- payload:
		if h.metrics != nil {
			h.metrics.RecordPushMessage()
		}
	default:
		h.logger.Warn("dropping slow push client")
		if h.metrics != nil {
			h.metrics.RecordPushDropped()
		}
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.connected.Add(-1)
	close(client.send)
	if h.metrics != nil {
		h.metrics.PushClientDisconnected()
	}
}

// ReadPump discards inbound frames and unregisters the client when the
// connection ends.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// Serve registers the connection and blocks until it closes.
func (h *Hub) Serve(conn Conn) {
	client := NewClient(h, conn)
	if !h.Register(client) {
		return
	}

	go client.WritePump()
	client.ReadPump()
}
