package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/pkg/logger"
	"github.com/complyhub/riskgate/internal/pkg/metrics"
	"github.com/gorilla/websocket"
)

const (
	PingPeriod   = 15 * time.Second
	writeTimeout = 5 * time.Second
	readTimeout  = PingPeriod + 10*time.Second
	sendBuffer   = 32
)

const EventAssessment = "assessment"

// Event is one message on the live feed.
type Event struct {
	EventType string                  `json:"event_type"`
	EntityID  string                  `json:"entity_id"`
	Record    *model.AssessmentRecord `json:"record"`
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	entityID string // 为空表示订阅全部
	once     sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans completed assessments out to websocket subscribers. A subscriber
// whose buffer is full is disconnected rather than slowing the publisher.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	closed   bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and streams events until the peer goes away.
// An optional entity_id query parameter narrows the feed to one entity.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		entityID: r.URL.Query().Get("entity_id"),
	}
	if !h.register(c) {
		conn.Close()
		return nil
	}

	go h.writeLoop(c)
	h.readLoop(c)
	return nil
}

// Publish queues rec for every matching subscriber without blocking.
func (h *Hub) Publish(rec *model.AssessmentRecord) {
	if rec == nil {
		return
	}
	payload, err := json.Marshal(Event{
		EventType: EventAssessment,
		EntityID:  rec.EntityID,
		Record:    rec,
	})
	if err != nil {
		logger.Error("Failed to encode stream event", "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		if c.entityID != "" && c.entityID != rec.EntityID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("Dropping slow stream client", "remote", c.conn.RemoteAddr().String())
		h.unregister(c)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.StreamClients.Inc()
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		metrics.StreamClients.Dec()
		c.close()
	}
}

// readLoop only watches for disconnects; the feed is one-way.
func (h *Hub) readLoop(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
