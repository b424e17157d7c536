// Package websocket pushes committed availability and rating changes to
// clients watching a hotel.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ service.EventPublisher = (*Hub)(nil)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeRoomsUnavailable MessageType = "rooms_unavailable"
	MessageTypeHotelRated       MessageType = "hotel_rated"
)

// Message represents a WebSocket message
type Message struct {
	Type            MessageType `json:"type"`
	HotelID         string      `json:"hotelId"`
	RoomID          string      `json:"roomId,omitempty"`
	BookingID       string      `json:"bookingId,omitempty"`
	From            string      `json:"from,omitempty"`
	To              string      `json:"to,omitempty"`
	Rating          float64     `json:"rating,omitempty"`
	NumberOfRatings int         `json:"numberOfRatings,omitempty"`
	Timestamp       int64       `json:"timestamp"`
}

// MessageFor converts a committed event into the message sent to the
// hotel's watchers. ok is false for events that have no feed message.
func MessageFor(e models.AnalyticsEvent) (msg *Message, ok bool) {
	switch e.Kind {
	case models.EventBookingCreated:
		return &Message{
			Type:      MessageTypeRoomsUnavailable,
			HotelID:   e.HotelID.String(),
			RoomID:    e.RoomID.String(),
			BookingID: e.SubjectID.String(),
			From:      e.From,
			To:        e.To,
			Timestamp: e.OccurredAt.UnixMilli(),
		}, true
	case models.EventHotelRated:
		return &Message{
			Type:            MessageTypeHotelRated,
			HotelID:         e.HotelID.String(),
			Rating:          e.Rating,
			NumberOfRatings: e.Ratings,
			Timestamp:       e.OccurredAt.UnixMilli(),
		}, true
	}
	return nil, false
}

// Hub manages WebSocket connections per hotel
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
	logger     service.Logger
}

// NewHub creates a new Hub
func NewHub(logger service.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop. It returns when ctx is done, closing every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for hotelID, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, hotelID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.hotelID] == nil {
				h.clients[client.hotelID] = make(map[*Client]bool)
			}
			h.clients[client.hotelID][client] = true
			h.logger.Debug("websocket client registered", "hotel_id", client.hotelID, "total", len(h.clients[client.hotelID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// remove drops client and closes its send channel. Callers hold h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.hotelID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	h.logger.Debug("websocket client unregistered", "hotel_id", client.hotelID, "remaining", len(clients))
	if len(clients) == 0 {
		delete(h.clients, client.hotelID)
	}
}

func (h *Hub) deliver(message *Message) {
	hotelID, err := uuid.Parse(message.HotelID)
	if err != nil {
		h.logger.Warn("invalid hotel id in broadcast", "hotel_id", message.HotelID)
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[hotelID]
	h.logger.Debug("broadcasting websocket message", "type", message.Type, "clients", len(clients), "hotel_id", hotelID)
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.remove(client)
		}
	}
}

// Publish queues the feed message of a committed event. Events without a
// feed message are ignored.
func (h *Hub) Publish(ctx context.Context, event models.AnalyticsEvent) error {
	msg, ok := MessageFor(event)
	if !ok {
		return nil
	}
	if msg.Timestamp <= 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of clients watching a hotel
func (h *Hub) ClientCount(hotelID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[hotelID])
}
