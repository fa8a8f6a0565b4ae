package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed to connected clients
const (
	EventBookingRequest   = "booking_request"
	EventBookingResponse  = "booking_response"
	EventBookingConfirmed = "booking_confirmed"
	EventCommissionChange = "commission_change"
	EventListingReviewed  = "listing_reviewed"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type         string      `json:"type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
	UserID       string      `json:"userID,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID        primitive.ObjectID
	UserType      string
	Conn          *websocket.Conn
	Authenticated bool
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients                map[primitive.ObjectID]*Client
	unauthenticatedClients map[*Client]bool
	register               chan *Client
	unregister             chan *Client
	mu                     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:                make(map[primitive.ObjectID]*Client),
		unauthenticatedClients: make(map[*Client]bool),
		register:               make(chan *Client),
		unregister:             make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				h.clients[client.UserID] = client
			} else {
				h.unauthenticatedClients[client] = true
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				if _, ok := h.clients[client.UserID]; ok {
					delete(h.clients, client.UserID)
				}
			} else {
				delete(h.unauthenticatedClients, client)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// AuthenticateClient moves a client from unauthenticated to authenticated state
func (h *Hub) AuthenticateClient(client *Client, userID primitive.ObjectID, userType string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.unauthenticatedClients, client)

	client.Authenticated = true
	client.UserID = userID
	client.UserType = userType

	h.clients[userID] = client
}

// BroadcastToUserType sends a message to every connected client of a user type
func (h *Hub) BroadcastToUserType(userType string, notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserType == userType {
			client.Conn.WriteJSON(notification)
		}
	}
}

// NotifyBookingRequest tells a property owner about a new booking request
func (h *Hub) NotifyBookingRequest(ownerID primitive.ObjectID, bookingData interface{}) error {
	return h.SendToUser(ownerID, Notification{
		Type:    EventBookingRequest,
		Message: "New booking request received",
		Data:    bookingData,
	})
}

// NotifyBookingResponse tells a guest their booking status changed
func (h *Hub) NotifyBookingResponse(guestID primitive.ObjectID, bookingData interface{}) error {
	return h.SendToUser(guestID, Notification{
		Type:    EventBookingResponse,
		Message: "Your booking status has been updated",
		Data:    bookingData,
	})
}

// NotifyCommissionChange fans a commissions-collection change out to every
// connected admin so open dashboards re-fetch. Advisory: a missed event just
// means a stale view until the next refresh.
func (h *Hub) NotifyCommissionChange(change interface{}) {
	h.BroadcastToUserType("admin", Notification{
		Type:    EventCommissionChange,
		Message: "Commission records changed",
		Data:    change,
	})
}
