package track

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voxgate/voxgate/internal/message"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// consoleEvent is the wire format broadcast to console subscribers.
type consoleEvent struct {
	Direction string    `json:"direction"` // "in" or "out"
	Platform  string    `json:"platform"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Intent    string    `json:"intent,omitempty"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
}

// Console broadcasts tracked traffic to WebSocket subscribers, giving a live
// view of the gateway during development.
type Console struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]bool
}

// NewConsole creates an empty console with no subscribers.
func NewConsole() *Console {
	return &Console{subs: make(map[*websocket.Conn]bool)}
}

func (c *Console) Name() string { return "console" }

// ServeHTTP upgrades the connection and keeps it subscribed until the peer
// closes it.
func (c *Console) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("console: websocket upgrade: %v", err)
		return
	}

	c.mu.Lock()
	c.subs[conn] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.subs, conn)
		c.mu.Unlock()
		conn.Close()
	}()

	// Drain reads so close frames are processed; the console never acts
	// on client messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("console: websocket read: %v", err)
			}
			return
		}
	}
}

func (c *Console) TrackInput(ctx context.Context, in *message.Input) error {
	c.broadcast(consoleEvent{
		Direction: "in",
		Platform:  in.Platform,
		UserID:    in.UserID,
		SessionID: in.SessionID,
		Intent:    in.Intent,
		Text:      in.Message,
		Time:      in.Time,
	})
	return nil
}

func (c *Console) TrackOutput(ctx context.Context, out *message.Output) error {
	text := ""
	for _, r := range out.Replies {
		if r.Kind() == message.KindText {
			text = r.Debug()
			break
		}
	}
	c.broadcast(consoleEvent{
		Direction: "out",
		Platform:  out.Platform,
		UserID:    out.UserID,
		SessionID: out.SessionID,
		Intent:    out.Intent,
		Text:      text,
		Time:      time.Now(),
	})
	return nil
}

func (c *Console) broadcast(ev consoleEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for conn := range c.subs {
		if err := conn.WriteJSON(ev); err != nil {
			delete(c.subs, conn)
			conn.Close()
		}
	}
}

// Subscribers returns the current subscriber count.
func (c *Console) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}
