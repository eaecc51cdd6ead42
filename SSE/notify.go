package SSE

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Chidinma123456/AvaBuddie/Models"

	"github.com/gin-gonic/gin"
)

// NotificationBroadcaster manages SSE connections keyed by the addressee's
// profile id, so each client only sees its own events.
type NotificationBroadcaster struct {
	clients map[uint]map[chan string]bool
	mu      sync.Mutex
}

func NewNotificationBroadcaster() *NotificationBroadcaster {
	return &NotificationBroadcaster{
		clients: make(map[uint]map[chan string]bool),
	}
}

// Register adds a new client channel for the given profile.
func (b *NotificationBroadcaster) Register(profileID uint, client chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clients[profileID] == nil {
		b.clients[profileID] = make(map[chan string]bool)
	}
	b.clients[profileID][client] = true
}

// Unregister removes a client channel and closes it. Called exactly once by
// the handler that registered the channel, even if Notify already dropped the
// channel for being unresponsive.
func (b *NotificationBroadcaster) Unregister(profileID uint, client chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if clients, ok := b.clients[profileID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(b.clients, profileID)
		}
	}
	close(client)
}

// Notify sends a message to every connection the addressee currently holds.
// An unresponsive connection is dropped from the map but its channel stays
// open; only the handler that owns it closes it, via Unregister, so the
// handler never reads from a closed channel.
func (b *NotificationBroadcaster) Notify(profileID uint, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.clients[profileID] {
		select {
		case client <- message:
		case <-time.After(1 * time.Second):
			delete(b.clients[profileID], client)
		}
	}
	if len(b.clients[profileID]) == 0 {
		delete(b.clients, profileID)
	}
}

var Broadcaster = NewNotificationBroadcaster()

// NotificationSSE streams the caller's notification events.
func NotificationSSE(c *gin.Context) {
	value, exists := c.Get("profile")
	if !exists {
		c.String(http.StatusUnauthorized, "Unauthorized Profile Not Set")
		return
	}
	profile := value.(Models.Profile)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	clientChan := make(chan string)

	Broadcaster.Register(profile.ID, clientChan)
	defer Broadcaster.Unregister(profile.ID, clientChan)
	fmt.Fprintf(c.Writer, "data: %s\n\n", "connected")
	c.Writer.Flush()
	for {
		select {
		case message := <-clientChan:
			fmt.Fprintf(c.Writer, "data: %s\n\n", message)
			c.Writer.Flush()
		case <-c.Writer.CloseNotify():
			// Client disconnected
			return
		}
	}
}
