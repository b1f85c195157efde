// Package notify рассылает изменения корзины открытым вкладкам той же сессии.
package notify

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// CartEvent отправляется клиенту после каждого изменения корзины.
type CartEvent struct {
	TotalQuantity int `json:"totalQuantity"`
}

// subscriber обслуживает одно соединение. gorilla/websocket допускает только одного писателя за раз.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(event CartEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(event)
}

// Hub хранит подписчиков по id сессии корзины.
type Hub struct {
	upgrader    websocket.Upgrader
	logger      logger.Logger
	mu          sync.Mutex
	subscribers map[string][]*subscriber
}

// NewHub создаёт хаб. Пустой allowedOrigins означает проверку same-origin по умолчанию.
func NewHub(allowedOrigins []string, logger logger.Logger) *Hub {
	h := &Hub{
		logger:      logger,
		subscribers: make(map[string][]*subscriber),
	}
	if len(allowedOrigins) > 0 {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, origin)
		}
	}
	return h
}

// Serve поднимает соединение, отправляет текущее количество и держит подписку до отключения клиента.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string, current func() (int, error)) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn}
	h.add(sessionID, sub)
	defer func() {
		h.remove(sessionID, sub)
		conn.Close()
	}()

	totalQuantity, err := current()
	if err != nil {
		return err
	}
	if err := sub.send(CartEvent{TotalQuantity: totalQuantity}); err != nil {
		return nil
	}

	for {
		// входящие сообщения не нужны, чтение только ловит закрытие
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Publish отправляет новое количество всем вкладкам сессии.
func (h *Hub) Publish(sessionID string, totalQuantity int) {
	h.mu.Lock()
	subs := slices.Clone(h.subscribers[sessionID])
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(CartEvent{TotalQuantity: totalQuantity}); err != nil {
			h.logger.Debugf("drop cart subscriber. session: %s, error: %v", sessionID, err)
			h.remove(sessionID, sub)
			sub.conn.Close()
		}
	}
}

// Subscribers возвращает число открытых соединений сессии.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[sessionID])
}

func (h *Hub) add(sessionID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sessionID] = append(h.subscribers[sessionID], sub)
}

func (h *Hub) remove(sessionID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := slices.DeleteFunc(h.subscribers[sessionID], func(s *subscriber) bool { return s == sub })
	if len(subs) == 0 {
		delete(h.subscribers, sessionID)
		return
	}
	h.subscribers[sessionID] = subs
}
