package chat

import (
	"sync"
	"time"

	"campaign-app/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn is the write side of one live connection as the registry and hub see
// it. The session goroutine that accepted the connection keeps exclusive
// ownership of the read side.
type Conn interface {
	UserID() uuid.UUID
	Username() string
	Send(data []byte) error
	Close() error
}

// WSConn adapts a gorilla connection to Conn. Writes are serialized under a
// mutex: broadcasts arrive from other sessions' goroutines while the owning
// session may be sending a private error event.
type WSConn struct {
	sock     *websocket.Conn
	userID   uuid.UUID
	username string
	mu       sync.Mutex
}

func NewWSConn(sock *websocket.Conn, user *models.User) *WSConn {
	return &WSConn{
		sock:     sock,
		userID:   user.ID,
		username: user.Username,
	}
}

func (c *WSConn) UserID() uuid.UUID { return c.userID }
func (c *WSConn) Username() string  { return c.username }

func (c *WSConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sock.SetWriteDeadline(time.Now().Add(writeWait))
	return c.sock.WriteMessage(websocket.TextMessage, data)
}

func (c *WSConn) Close() error {
	return c.sock.Close()
}
