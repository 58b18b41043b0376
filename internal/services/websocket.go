package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID       uint
	UserType string
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
}

// Hub maintains the set of active clients and broadcasts messages.
// Connecting a socket is the subscribe operation for booking updates;
// closing it unsubscribes.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			// Write lock: slow clients are evicted mid-iteration
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToUserType sends a message to all users of a specific type.
// Admin consoles listen this way for new bookings.
func (h *Hub) BroadcastToUserType(userType string, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.UserType == userType {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingStatusUpdate notifies a renter that their booking moved to a new
// status. Messages for one booking arrive in write order.
type BookingStatusUpdate struct {
	BookingID uint   `json:"bookingId"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// BookingCreated notifies admin listeners of a new booking awaiting review.
type BookingCreated struct {
	BookingID  uint    `json:"bookingId"`
	Reference  string  `json:"reference"`
	CarModel   string  `json:"carModel"`
	TotalPrice float64 `json:"totalPrice"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, userType string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:       userID,
		UserType: userType,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
	}

	hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// NotifyBookingStatus pushes a status change to the owning renter's open
// sockets.
func NotifyBookingStatus(hub *Hub, userID, bookingID uint, reference, status string) {
	msg := WebSocketMessage{
		Type: "booking_status",
		Data: BookingStatusUpdate{
			BookingID: bookingID,
			Reference: reference,
			Status:    status,
		},
	}
	if data, err := json.Marshal(msg); err == nil {
		hub.BroadcastToUser(userID, data)
	}
}

// NotifyBookingCreated pushes a new-booking event to every connected admin.
func NotifyBookingCreated(hub *Hub, bookingID uint, reference, carModel string, totalPrice float64) {
	msg := WebSocketMessage{
		Type: "booking_created",
		Data: BookingCreated{
			BookingID:  bookingID,
			Reference:  reference,
			CarModel:   carModel,
			TotalPrice: totalPrice,
		},
	}
	if data, err := json.Marshal(msg); err == nil {
		hub.BroadcastToUserType("admin", data)
	}
}
