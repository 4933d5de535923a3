package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service katmanının WebSocket event'leri broadcast etmek
// için kullandığı interface.
//
// Service'ler Hub'ın concrete struct'ına değil bu interface'e bağımlıdır —
// testlerde mock EventPublisher kullanılabilir.
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToUser(userID int64, event Event)
	GetOnlineUserIDs() []int64
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
//
// Run() goroutine'i register/unregister channel'larını dinler ve clients
// map'ini günceller. Broadcast'ler map'i RLock ile okur.
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla tab'ı olabilir)
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// seq: her outbound event'e verilen artan sayaç
	seq atomic.Int64

	// Presence callback'leri — main.go'da set edilir (Dependency Inversion:
	// Hub service/repo katmanını bilmez, DB güncellemesi callback'lerde yapılır).
	// addClient/removeClient içinden ayrı goroutine'de çağrılırlar.
	onUserFirstConnect      func(userID int64)
	onUserFullyDisconnected func(userID int64)
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// OnUserFirstConnect, kullanıcının İLK bağlantısı kurulduğunda çağrılacak
// callback'i kaydeder.
func (h *Hub) OnUserFirstConnect(fn func(userID int64)) {
	h.onUserFirstConnect = fn
}

// OnUserFullyDisconnected, kullanıcının SON bağlantısı koptuğunda çağrılacak
// callback'i kaydeder.
func (h *Hub) OnUserFullyDisconnected(fn func(userID int64)) {
	h.onUserFullyDisconnected = fn
}

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
// Shutdown çağrılınca döner.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	first := len(h.clients[client.userID]) == 0
	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	log.Printf("[ws] client connected: user=%d (connections: %d)",
		client.userID, len(h.clients[client.userID]))

	// Callback ayrı goroutine'de — Hub lock'u ile broadcast RLock'u çakışmasın
	if first && h.onUserFirstConnect != nil {
		go h.onUserFirstConnect(client.userID)
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.userID)
		log.Printf("[ws] user fully disconnected: %d", client.userID)
		if h.onUserFullyDisconnected != nil {
			go h.onUserFullyDisconnected(client.userID)
		}
	} else {
		log.Printf("[ws] client disconnected: user=%d (remaining: %d)",
			client.userID, len(clients))
	}
}

// BroadcastToAll, tüm bağlı client'lara event gönderir.
func (h *Hub) BroadcastToAll(event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Buffer dolu — bu client yavaş, bağlantısını kapat
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// BroadcastToUser, belirli bir kullanıcının tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToUser(userID int64, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal user event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// GetOnlineUserIDs, bağlı olan tüm kullanıcı ID'lerini döner.
func (h *Hub) GetOnlineUserIDs() []int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]int64, 0, len(h.clients))
	for userID := range h.clients {
		ids = append(ids, userID)
	}
	return ids
}

// Shutdown, Run loop'unu durdurur ve tüm client bağlantılarını kapatır
// (graceful shutdown).
func (h *Hub) Shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
	log.Println("[ws] hub shut down, all connections closed")
}
