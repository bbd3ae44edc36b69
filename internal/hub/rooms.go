package hub

// Rooms maps conversation ids to the connections subscribed to them. Rooms
// are created lazily on first join and deleted when the last member leaves.
// Like the Registry, Rooms is owned by the Hub and only mutated under its
// mutex.
type Rooms struct {
	rooms map[uint]map[string]*Connection
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms: make(map[uint]map[string]*Connection),
	}
}

// Join subscribes a connection to a conversation. Joining twice is a no-op.
func (r *Rooms) Join(conversationID uint, conn *Connection) {
	members, ok := r.rooms[conversationID]
	if !ok {
		members = make(map[string]*Connection)
		r.rooms[conversationID] = members
	}
	members[conn.SocketID] = conn
	conn.rooms[conversationID] = struct{}{}
}

// Leave unsubscribes a connection. Leaving a room it never joined, or a room
// that does not exist, is a no-op.
func (r *Rooms) Leave(conversationID uint, conn *Connection) {
	delete(conn.rooms, conversationID)
	members, ok := r.rooms[conversationID]
	if !ok {
		return
	}
	delete(members, conn.SocketID)
	if len(members) == 0 {
		delete(r.rooms, conversationID)
	}
}

// Members returns a snapshot of a room's connections, empty for unknown rooms.
func (r *Rooms) Members(conversationID uint) []*Connection {
	members := make([]*Connection, 0, len(r.rooms[conversationID]))
	for _, conn := range r.rooms[conversationID] {
		members = append(members, conn)
	}
	return members
}

// DropConnection removes the connection from every room it joined.
func (r *Rooms) DropConnection(conn *Connection) {
	for conversationID := range conn.rooms {
		r.Leave(conversationID, conn)
	}
}
