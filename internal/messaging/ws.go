package messaging

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans live messages out to every socket a user has open
type hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]bool
}

var liveHub = &hub{conns: map[string]map[*websocket.Conn]bool{}}

func (h *hub) add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = map[*websocket.Conn]bool{}
	}
	h.conns[userID][conn] = true
}

func (h *hub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// push delivers v to every open socket of userID; dead sockets are dropped
func (h *hub) push(userID string, v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[userID] {
		if err := conn.WriteJSON(v); err != nil {
			conn.Close()
			delete(h.conns[userID], conn)
		}
	}
}

// Serve upgrades the connection and keeps it registered until the client
// goes away. Inbound frames are drained and discarded; delivery is one-way.
func Serve(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return nil
	}

	liveHub.add(ident.ID, conn)
	defer func() {
		liveHub.remove(ident.ID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
