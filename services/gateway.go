package services

import (
	"log"
	"sync"

	"mystery-tiles/protocol"
)

// Gateway delivers events to connections: addressed to one, or fanned out to
// all except an optional originator. Delivery is best effort.
type Gateway struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewGateway() *Gateway {
	return &Gateway{clients: make(map[string]*Client)}
}

func (g *Gateway) Register(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[c.ID] = c
}

func (g *Gateway) Unregister(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, id)
}

func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

// Send delivers to exactly one connection. Unknown ids are dropped.
func (g *Gateway) Send(id, event string, payload any) {
	g.mu.RLock()
	c, ok := g.clients[id]
	g.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.Emit(event, payload); err != nil {
		log.Printf("[GATEWAY] ⚠️ Send %s to %s failed: %v", event, id, err)
	}
}

// Broadcast delivers to every connection except exceptID (empty for everyone).
func (g *Gateway) Broadcast(event string, payload any, exceptID string) {
	b, err := protocol.Encode(event, payload)
	if err != nil {
		log.Printf("[GATEWAY] ❌ Encode %s failed: %v", event, err)
		return
	}

	g.mu.RLock()
	targets := make([]*Client, 0, len(g.clients))
	for id, c := range g.clients {
		if id != exceptID {
			targets = append(targets, c)
		}
	}
	g.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(b); err != nil {
			log.Printf("[GATEWAY] ⚠️ Broadcast %s to %s failed: %v", event, c.ID, err)
		}
	}
}

// Notify sends an in-app notification to one connection.
func (g *Gateway) Notify(id string, n protocol.Notification) {
	g.Send(id, protocol.EventInAppNotification, n)
}

// NotifyOthers fans an in-app notification out to everyone but the originator.
func (g *Gateway) NotifyOthers(exceptID string, n protocol.Notification) {
	g.Broadcast(protocol.EventInAppNotification, n, exceptID)
}
