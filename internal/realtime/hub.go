package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"nextalk-desk/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// replayBufferSize bounds the in-memory event ring. A client asking for
// events older than the ring holds gets a resync instead.
const replayBufferSize = 256

type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub re-broadcasts every ticket event to all connected clients and keeps
// a bounded ring of recent envelopes ordered by sequence so a reconnecting
// client can request "events since N" instead of re-fetching blindly.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.TicketEvent

	mu      sync.RWMutex
	ring    []models.TicketEvent
	lastSeq int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.TicketEvent, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Realtime client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("Realtime client disconnected: %s", client.ID)

		case evt := <-h.broadcast:
			h.remember(evt)
			data, err := json.Marshal(evt)
			if err != nil {
				log.Printf("Failed to marshal realtime event: %v", err)
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// slow consumer, drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast hands an event to the hub loop. Events arriving out of
// sequence order are still delivered; the ring keeps them sorted by
// arrival, which matches publish order in practice.
func (h *Hub) Broadcast(evt models.TicketEvent) {
	h.broadcast <- evt
}

func (h *Hub) remember(evt models.TicketEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ring = append(h.ring, evt)
	if len(h.ring) > replayBufferSize {
		h.ring = h.ring[len(h.ring)-replayBufferSize:]
	}
	if evt.Seq > h.lastSeq {
		h.lastSeq = evt.Seq
	}
}

// LastSeq returns the highest sequence number seen so far.
func (h *Hub) LastSeq() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastSeq
}

// ReplaySince returns the buffered events with seq > since, and whether
// the ring still covers that point. When it does not, the caller must
// resync with a full fetch.
func (h *Hub) ReplaySince(since int64) ([]models.TicketEvent, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.ring) == 0 {
		return nil, since >= h.lastSeq
	}
	// The ring must reach back past `since`: its oldest entry has to be
	// the event right after it or older.
	if h.ring[0].Seq > since+1 {
		return nil, false
	}
	var out []models.TicketEvent
	for _, evt := range h.ring {
		if evt.Seq > since {
			out = append(out, evt)
		}
	}
	return out, true
}

// ServeWS upgrades the connection and replays missed events when the
// client passes ?since=N. The replay is written straight to the
// connection before the client joins the broadcast set, so its size is
// not bounded by the send buffer. Events published during the replay are
// not delivered; the client sees the sequence gap and refetches.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	if sinceParam := r.URL.Query().Get("since"); sinceParam != "" {
		since, err := strconv.ParseInt(sinceParam, 10, 64)
		if err == nil {
			if err := h.replayTo(conn, since); err != nil {
				log.Printf("Replay failed: %v", err)
				conn.Close()
				return
			}
		}
	}

	client := &Client{
		ID:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Hub) replayTo(conn *websocket.Conn, since int64) error {
	events, ok := h.ReplaySince(since)
	if !ok {
		resync := models.TicketEvent{
			Event:     models.EventResync,
			Seq:       h.LastSeq(),
			Timestamp: time.Now().UnixMilli(),
		}
		data, err := json.Marshal(resync)
		if err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, data)
	}
	for _, evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
