package hub

import (
	"github.com/google/uuid"
)

// Conn is the write side of a live transport session. *websocket.Conn
// satisfies it directly; tests substitute in-memory fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Connection binds a transport session to an authenticated user. UserID is
// set once at registration and never reassigned. The rooms set tracks the
// conversations this connection joined so teardown touches only those.
type Connection struct {
	SocketID string
	UserID   uint

	conn   Conn
	rooms  map[uint]struct{}
	closed bool
}

func newConnection(userID uint, conn Conn) *Connection {
	return &Connection{
		SocketID: uuid.NewString(),
		UserID:   userID,
		conn:     conn,
		rooms:    make(map[uint]struct{}),
	}
}
