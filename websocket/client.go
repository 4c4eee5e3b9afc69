package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи сообщения
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Период отправки пингов
	pingPeriod = 25 * time.Second

	// Максимальный размер входящего сообщения
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client — одно соединение панели опекуна. Поток однонаправленный: панель
// только слушает дельты состояний, входящие данные игнорируются.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	GuardianUID string
	send        chan StateMessage
}

// ServeWs обновляет HTTP-соединение до WebSocket и регистрирует клиента
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, guardianUID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocket] Ошибка апгрейда соединения: %v", err)
		return
	}

	client := &Client{
		hub:         hub,
		conn:        conn,
		GuardianUID: guardianUID,
		send:        make(chan StateMessage, 64),
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump держит соединение открытым и следит за pong; полезной нагрузки
// от панели не ожидается
func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WebSocket] Ошибка чтения от %s: %v", c.GuardianUID, err)
			}
			return
		}
	}
}

// writePump отправляет дельты состояний и пинги клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("[WebSocket] Ошибка записи клиенту %s: %v", c.GuardianUID, err)
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
