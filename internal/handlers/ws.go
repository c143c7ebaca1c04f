package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/openlance/openlance/internal/types"
	"github.com/openlance/openlance/internal/utils"
)

// bidClient serializes writes to one subscriber connection. gorilla/websocket
// allows at most one concurrent writer per connection, and both the broadcast
// path and the ping loop write.
type bidClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *bidClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(v)
}

func (c *bidClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

var (
	bidClients   = make(map[uint]map[*bidClient]bool)
	bidClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if origin == "" {
			return true
		}

		for _, allowed := range types.AllowedOrigins {
			if origin == allowed {
				return true
			}
		}

		return false
	},
}

// BroadcastBidUpdate notifies every subscriber of a bid that its engagement
// changed: a committed status transition or a new chat message.
func BroadcastBidUpdate(bidID uint, event string) {
	bidClientsMu.RLock()
	clients, exists := bidClients[bidID]

	if !exists || len(clients) == 0 {
		bidClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*bidClient, 0, len(clients))

	for client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	bidClientsMu.RUnlock()

	for _, client := range clientsCopy {
		err := client.writeJSON(map[string]interface{}{
			"type":   "refresh",
			"event":  event,
			"bid_id": bidID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			unregisterBidClient(bidID, client)
			client.conn.Close()
		}
	}
}

// BidFeed subscribes the caller to live updates for one bid. The guard only
// admits the project owner and the bidder.
func (h *Handler) BidFeed(ctx *gin.Context) {
	bid, err := utils.GetBid(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)

	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &bidClient{conn: conn}

	registerBidClient(bid.ID, client)

	defer func() {
		unregisterBidClient(bid.ID, client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set read deadline: %v", err)
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(done)
}

func registerBidClient(bidID uint, client *bidClient) {
	bidClientsMu.Lock()
	defer bidClientsMu.Unlock()

	if bidClients[bidID] == nil {
		bidClients[bidID] = make(map[*bidClient]bool)
	}

	bidClients[bidID][client] = true
}

func unregisterBidClient(bidID uint, client *bidClient) {
	bidClientsMu.Lock()
	defer bidClientsMu.Unlock()

	if clients, exists := bidClients[bidID]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(bidClients, bidID)
		}
	}
}
