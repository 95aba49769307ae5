package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BruksfildServices01/barbearia-console/internal/bus"
	"github.com/BruksfildServices01/barbearia-console/internal/middleware"
)

const (
	hubWriteWait  = 10 * time.Second
	hubSendBuffer = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type hubClient struct {
	conn *websocket.Conn
	role string
	send chan bus.Event
}

// SyncHub pushes every bus event to the open consoles so their views can
// refresh. A client whose role cannot read the key gets the event without
// its value. A client that falls behind loses events rather than slowing the
// bus down.
type SyncHub struct {
	mu          sync.Mutex
	clients     map[*hubClient]struct{}
	unsubscribe func()
}

func NewSyncHub(b *bus.Bus) *SyncHub {
	h := &SyncHub{clients: map[*hubClient]struct{}{}}
	h.unsubscribe = b.Subscribe(h.broadcast)
	return h
}

func (h *SyncHub) broadcast(ev bus.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		out := ev
		if !canRead(cl.role, ev.Key) {
			out.Value = nil
		}
		select {
		case cl.send <- out:
		default:
			log.Printf("[ws] client behind, dropping %s", ev.Key)
		}
	}
}

func (h *SyncHub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	cl := &hubClient{
		conn: conn,
		role: c.GetString(middleware.ContextUserRole),
		send: make(chan bus.Event, hubSendBuffer),
	}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go cl.writeLoop()

	// Reads only detect the close; consoles never send anything.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(cl)
}

func (h *SyncHub) remove(cl *hubClient) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
}

func (cl *hubClient) writeLoop() {
	defer cl.conn.Close()
	for ev := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(hubWriteWait))
		if err := cl.conn.WriteJSON(ev); err != nil {
			return
		}
	}
	cl.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(hubWriteWait),
	)
}

func (h *SyncHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close detaches from the bus and disconnects every client.
func (h *SyncHub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
}
