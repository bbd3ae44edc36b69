package hub

// Registry tracks which connections each user currently holds. A user id is
// present iff its connection set is non-empty. The registry is owned by the
// Hub and must only be touched under the Hub's mutex.
type Registry struct {
	users   map[uint]map[string]*Connection
	sockets map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{
		users:   make(map[uint]map[string]*Connection),
		sockets: make(map[string]*Connection),
	}
}

// Add records a connection and reports whether it is the user's first one.
func (r *Registry) Add(conn *Connection) bool {
	conns, ok := r.users[conn.UserID]
	if !ok {
		conns = make(map[string]*Connection)
		r.users[conn.UserID] = conns
	}
	conns[conn.SocketID] = conn
	r.sockets[conn.SocketID] = conn
	return len(conns) == 1
}

// Remove drops a connection and reports whether it was the user's last one.
// Removing an unknown connection is a no-op.
func (r *Registry) Remove(conn *Connection) bool {
	conns, ok := r.users[conn.UserID]
	if !ok {
		return false
	}
	if _, ok := conns[conn.SocketID]; !ok {
		return false
	}
	delete(conns, conn.SocketID)
	delete(r.sockets, conn.SocketID)
	if len(conns) == 0 {
		delete(r.users, conn.UserID)
		return true
	}
	return false
}

func (r *Registry) OnlineUsers() []uint {
	users := make([]uint, 0, len(r.users))
	for userID := range r.users {
		users = append(users, userID)
	}
	return users
}

// ConnectionsOf returns every open connection of a user, empty when the user
// is offline.
func (r *Registry) ConnectionsOf(userID uint) []*Connection {
	conns := make([]*Connection, 0, len(r.users[userID]))
	for _, conn := range r.users[userID] {
		conns = append(conns, conn)
	}
	return conns
}

// Get looks a connection up by its socket id.
func (r *Registry) Get(socketID string) (*Connection, bool) {
	conn, ok := r.sockets[socketID]
	return conn, ok
}

// All returns a snapshot of every registered connection.
func (r *Registry) All() []*Connection {
	var all []*Connection
	for _, conns := range r.users {
		for _, conn := range conns {
			all = append(all, conn)
		}
	}
	return all
}
