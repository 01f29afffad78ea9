package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Origin is enforced by the CORS layer in front of us.
			return true
		},
	}

	clients      = make(map[string]*Client)
	clientsMutex sync.RWMutex

	broadcastQueue = make(chan *OrderEvent, 1000)
	done           = make(chan struct{})
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// Client is one connected admin dashboard.
type Client struct {
	ID         string
	Connection *websocket.Conn
	Send       chan *OrderEvent
}

// OrderEvent is pushed to every connected dashboard when an order is
// created or changes status.
type OrderEvent struct {
	Type        string `json:"type"` // order_created, order_status_changed
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	Timestamp   int64  `json:"timestamp"`
}

// InitWebSocket starts the broadcast worker.
func InitWebSocket() error {
	go startBroadcastWorker()
	log.Println("websocket service initialized")
	return nil
}

// CloseWebSocket stops the broadcast worker and disconnects clients.
func CloseWebSocket() error {
	close(done)
	clientsMutex.Lock()
	defer clientsMutex.Unlock()
	for id, client := range clients {
		client.Connection.Close()
		delete(clients, id)
	}
	return nil
}

// BroadcastOrderEvent queues an event for delivery to all connected
// dashboards. Drops the event when the queue is full rather than block
// the request path.
func BroadcastOrderEvent(event *OrderEvent) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	select {
	case broadcastQueue <- event:
	default:
		log.Printf("order event queue full, dropping %s for %s", event.Type, event.OrderNumber)
	}
}

func startBroadcastWorker() {
	for {
		select {
		case event := <-broadcastQueue:
			clientsMutex.RLock()
			for _, client := range clients {
				select {
				case client.Send <- event:
				default:
					// Slow consumer; skip this event for it.
				}
			}
			clientsMutex.RUnlock()
		case <-done:
			return
		}
	}
}

// HandleConnection upgrades the request and streams order events until
// the client goes away.
func HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		ID:         uuid.New().String(),
		Connection: conn,
		Send:       make(chan *OrderEvent, 256),
	}

	clientsMutex.Lock()
	clients[client.ID] = client
	clientsMutex.Unlock()

	go client.writePump()
	go client.readPump()
}

func (cl *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.Connection.Close()
	}()

	for {
		select {
		case event, ok := <-cl.Send:
			cl.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := cl.Connection.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			cl.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (cl *Client) readPump() {
	defer func() {
		clientsMutex.Lock()
		delete(clients, cl.ID)
		clientsMutex.Unlock()
		close(cl.Send)
		cl.Connection.Close()
	}()

	cl.Connection.SetReadLimit(512)
	cl.Connection.SetReadDeadline(time.Now().Add(pongWait))
	cl.Connection.SetPongHandler(func(string) error {
		cl.Connection.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// The feed is one-way; incoming frames only reset deadlines.
		if _, _, err := cl.Connection.ReadMessage(); err != nil {
			return
		}
	}
}
