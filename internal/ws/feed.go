package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Константы
const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxSendChannelSize = 256
)

const EventTypeActivity = "activity"

// OutEvent исходящее событие ленты
type OutEvent struct {
	Type      string    `json:"type"`
	Activity  any       `json:"activity,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed рассылает события журнала активности подключённым клиентам дашборда.
// Одна общая лента, без комнат.
type Feed struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	shutdown   chan struct{}
}

func NewFeed() *Feed {
	feed := &Feed{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, maxSendChannelSize),
		shutdown:   make(chan struct{}),
	}

	go feed.run()

	return feed
}

func (f *Feed) run() {
	for {
		select {
		case <-f.shutdown:
			f.mu.Lock()
			for c := range f.clients {
				c.close()
			}
			f.clients = make(map[*client]bool)
			f.mu.Unlock()
			return
		case c := <-f.register:
			f.mu.Lock()
			f.clients[c] = true
			f.mu.Unlock()
		case c := <-f.unregister:
			f.mu.Lock()
			if _, ok := f.clients[c]; ok {
				delete(f.clients, c)
				c.close()
			}
			f.mu.Unlock()
		case message := <-f.broadcast:
			f.mu.RLock()
			for c := range f.clients {
				c.sendRaw(message)
			}
			f.mu.RUnlock()
		}
	}
}

// BroadcastActivity публикует запись журнала всем подключённым клиентам.
// Никогда не блокирует вызывающую сторону: при переполнении событие теряется.
func (f *Feed) BroadcastActivity(payload any) {
	ev := OutEvent{
		Type:      EventTypeActivity,
		Activity:  payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("feed: failed to marshal activity event: %v", err)
		return
	}

	select {
	case f.broadcast <- data:
	default:
	}
}

// ServeHTTP апгрейдит соединение и подключает клиента к ленте
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("feed: upgrade failed: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, maxSendChannelSize),
	}

	f.register <- c

	go c.writePump()
	c.readPump(func() {
		select {
		case f.unregister <- c:
		case <-f.shutdown:
		}
	})
}

func (f *Feed) Shutdown() {
	close(f.shutdown)
}

// ClientCount возвращает число подключённых клиентов
func (f *Feed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.Mutex
	isClosed bool
}

// readPump: лента односторонняя, входящие сообщения только дренируются,
// но pump нужен для обработки pong и закрытия
func (c *client) readPump(onClose func()) {
	defer onClose()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("feed: client read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) sendRaw(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		// Перегруз - пропускаем сообщение
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return
	}

	c.isClosed = true
	close(c.send)
	c.conn.Close()
}
