package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one dashboard push message. Payload is encoded by the producer
// so the hub never touches domain types.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// frame is an Event encoded once, addressed to one restaurant room.
type frame struct {
	room uuid.UUID
	data []byte
}

// Hub fans events out to the dashboard connections of each restaurant.
// Rooms are keyed by restaurant ID; a client belongs to exactly one room.
type Hub struct {
	logger *zap.Logger

	attaching chan *Client
	detaching chan *Client
	frames    chan frame
	done      chan struct{}

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}
}

// NewHub creates an empty hub. Call Run before attaching clients.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:    logger,
		attaching: make(chan *Client),
		detaching: make(chan *Client),
		frames:    make(chan frame, 256),
		done:      make(chan struct{}),
		rooms:     make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// Run owns the room table until ctx is cancelled, then closes every
// client's send channel so the write pumps drain and disconnect.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.attaching:
			h.join(c)
		case c := <-h.detaching:
			h.leave(c)
		case f := <-h.frames:
			h.deliver(f)
		}
	}
}

// BroadcastToRestaurant queues an event for every dashboard watching the
// restaurant. Encoding happens here, once, on the caller's goroutine.
func (h *Hub) BroadcastToRestaurant(restaurantID uuid.UUID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode dashboard event",
			zap.String("type", event.Type),
			zap.Error(err))
		return
	}
	select {
	case h.frames <- frame{room: restaurantID, data: data}:
	case <-h.done:
	}
}

// ClientCount reports how many dashboards are watching a restaurant.
func (h *Hub) ClientCount(restaurantID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[restaurantID])
}

func (h *Hub) attach(c *Client) {
	select {
	case h.attaching <- c:
	case <-h.done:
		close(c.send)
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.detaching <- c:
	case <-h.done:
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.restaurantID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[c.restaurantID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.restaurantID]; ok {
		if _, ok := room[c]; ok {
			h.evict(c)
		}
	}
}

// evict removes c from its room and closes its send channel, dropping the
// room once empty. Caller holds mu.
func (h *Hub) evict(c *Client) {
	room := h.rooms[c.restaurantID]
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.restaurantID)
	}
}

func (h *Hub) deliver(f frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[f.room] {
		select {
		case c.send <- f.data:
		default:
			// A client that cannot keep up is dropped rather than
			// allowed to stall the room.
			h.logger.Warn("dropping slow dashboard client",
				zap.String("restaurant_id", f.room.String()))
			h.evict(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for rid, room := range h.rooms {
		for c := range room {
			close(c.send)
		}
		delete(h.rooms, rid)
	}
}
