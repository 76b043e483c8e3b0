package eventsControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/velora-commerce/storefront-api/models"
)

// Message is the envelope every websocket broadcast uses.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	mu        sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

// GET /ws/events
func EventsWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	mu.Lock()
	wsClients[conn] = true
	mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			mu.Lock()
			delete(wsClients, conn)
			mu.Unlock()
			break
		}
	}
}

// broadcast fans a message out to every connected client. Failures are
// logged and never propagated: a dead listener must not fail the mutation
// that triggered the event.
func broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Printf("events: marshal %s failed: %v", event, err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for client := range wsClients {
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}

// BroadcastCartUpdated tells listeners (badge counters, other tabs) that a
// user's cart size changed.
func BroadcastCartUpdated(userID string, itemCount int) {
	broadcast("cart_updated", gin.H{"user_id": userID, "item_count": itemCount})
}

// BroadcastOrderPlaced announces a new order after its transaction commits.
func BroadcastOrderPlaced(order models.Order) {
	broadcast("order_placed", order)
}

// BroadcastOrderCancelled announces a cancellation.
func BroadcastOrderCancelled(order models.Order) {
	broadcast("order_cancelled", order)
}
