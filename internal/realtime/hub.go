package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	pongWait       = 2 * pingPeriod
	maxMessageSize = 512
	sendQueueSize  = 16
)

// Hub garde les connexions WebSocket ouvertes et leur diffuse les trames
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	onConnect    func()
	onDisconnect func()
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub accepte toutes les origines quand allowed est vide
func NewHub(allowed ...string) *Hub {
	h := &Hub{clients: make(map[*client]struct{})}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowed),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || (len(allowed) == 1 && allowed[0] == "*") {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// OnConnect et OnDisconnect doivent être appelés avant de servir
func (h *Hub) OnConnect(fn func())    { h.onConnect = fn }
func (h *Hub) OnDisconnect(fn func()) { h.onDisconnect = fn }

// ServeWS passe la connexion en WebSocket et bloque jusqu'à sa fermeture
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueueSize)}
	h.register(c)
	go h.writePump(c)

	if h.onConnect != nil {
		h.onConnect()
	}

	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("🔌 Client connecté. Connexions actives: %d", n)
}

// remove est idempotent; la file d'envoi est fermée sous le verrou
// pour qu'aucun Broadcast ne puisse y écrire ensuite.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	log.Printf("🔌 Client déconnecté. Connexions actives: %d", n)
	if h.onDisconnect != nil {
		h.onDisconnect()
	}
}

// Broadcast met la trame en file pour chaque client.
// Un client dont la file est pleine est déconnecté, les autres ne sont pas affectés.
func (h *Hub) Broadcast(msg []byte) {
	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("⚠️ File d'envoi pleine, client déconnecté")
		h.remove(c)
	}
}

// Count renvoie le nombre de connexions ouvertes
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close ferme toutes les connexions (arrêt du serveur)
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// les messages entrants sont ignorés, la lecture sert à détecter la fermeture
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ WebSocket fermé: %v", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				h.remove(c)
				return
			}
		case <-ticker.C:
			// Ping pour garder la connexion active
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
