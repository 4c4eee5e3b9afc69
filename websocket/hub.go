package websocket

import (
	"log"
	"sync"

	"GuardianMobile/services"
)

// StateMessage — сообщение потока состояний для панели опекуна
type StateMessage struct {
	Type        string                   `json:"type"`
	GuardianUID string                   `json:"guardian_uid"`
	State       services.DeviceStateView `json:"state"`
}

// Hub управляет WebSocket-соединениями панелей опекунов. Подключения
// группируются по firebase_uid опекуна; цикл сверки шлет сюда дельты
// состояний устройств.
type Hub struct {
	// Зарегистрированные клиенты, сгруппированные по guardian_uid
	clients map[string]map[*Client]bool

	// Регистрация новых клиентов
	register chan *Client

	// Отмена регистрации клиентов
	unregister chan *Client

	// Канал исходящих дельт состояний
	broadcast chan StateMessage

	mu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan StateMessage),
	}
}

// BroadcastDeviceState отправляет дельту состояния всем подключенным
// панелям опекуна. Реализует services.StateBroadcaster.
func (h *Hub) BroadcastDeviceState(guardianUID string, view services.DeviceStateView) {
	h.broadcast <- StateMessage{
		Type:        "device_state",
		GuardianUID: guardianUID,
		State:       view,
	}
}

// Run запускает цикл обработки хаба
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.GuardianUID]; !ok {
				h.clients[client.GuardianUID] = make(map[*Client]bool)
			}
			h.clients[client.GuardianUID][client] = true
			log.Printf("[WebSocket] Панель подключена: %s", client.GuardianUID)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.GuardianUID]; ok {
				delete(h.clients[client.GuardianUID], client)
				close(client.send)
				if len(h.clients[client.GuardianUID]) == 0 {
					delete(h.clients, client.GuardianUID)
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			if clients, ok := h.clients[message.GuardianUID]; ok {
				for client := range clients {
					select {
					case client.send <- message:
					default:
						close(client.send)
						delete(clients, client)
						if len(clients) == 0 {
							delete(h.clients, message.GuardianUID)
						}
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// UnregisterClient отменяет регистрацию клиента в хабе
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
