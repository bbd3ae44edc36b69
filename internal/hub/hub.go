package hub

import (
	"encoding/json"
	"log"
	"sync"

	"presenceHub/internal/enums"
	"presenceHub/internal/errs"
	"presenceHub/internal/models"
	socketModels "presenceHub/internal/models/socket"
)

// Hub is the single dispatch point for every presence, room, and signaling
// event. It owns the Registry and Rooms maps outright: all mutations go
// through the hub mutex, which also serializes delivery so that per-room
// ordering matches processing order. Delivery is fire-and-forget; a write
// into a connection that already failed or closed is silently skipped.
// relayPublisher is the write side of the cross-instance relay. *Relay
// implements it; tests substitute fakes to inspect published envelopes.
type relayPublisher interface {
	Publish(message *models.Message) error
	PublishPresence(userID uint, online bool) error
}

// StatusRecorder persists presence transitions so the users table reflects
// who is online and when they were last seen. Recording is best-effort.
type StatusRecorder interface {
	SetUserOnlineStatus(userID uint, online bool) error
}

type Hub struct {
	mu       sync.Mutex
	registry *Registry
	rooms    *Rooms
	presence *PresenceBroadcaster
	relay    relayPublisher
	status   StatusRecorder
}

func NewHub() *Hub {
	h := &Hub{
		registry: NewRegistry(),
		rooms:    NewRooms(),
	}
	h.presence = NewPresenceBroadcaster(h.writeEvent)
	return h
}

// AttachRelay routes published messages and presence transitions through a
// redis channel so several hub instances share one logical room space. The
// relay's subscription loop feeds received envelopes back into the local
// deliver methods.
func (h *Hub) AttachRelay(relay *Relay) {
	h.relay = relay
	go relay.Run(h.deliverMessage, h.deliverPresence)
}

// SetStatusRecorder wires the durable store that mirrors presence
// transitions into the users table.
func (h *Hub) SetStatusRecorder(status StatusRecorder) {
	h.status = status
}

// Register records an authenticated connection, announces the user's online
// transition when this is their first connection, and hydrates the new
// client with the current online user set.
func (h *Hub) Register(userID uint, conn Conn) *Connection {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := newConnection(userID, conn)
	if first := h.registry.Add(c); first {
		h.announcePresence(userID, true)
	}
	h.writeEvent(c, socketModels.ServerEvent{
		Event:   enums.SOCKET_EVENT_INITIAL_ONLINE_USERS,
		Payload: socketModels.OnlineUsersPayload{UserIDs: h.registry.OnlineUsers()},
	})
	return c
}

// Unregister removes a connection from every joined room and from the
// registry, announcing the offline transition when it was the user's last
// connection. Unregistering twice is a no-op.
func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.rooms.DropConnection(c)
	last := h.registry.Remove(c)
	c.closed = true
	_ = c.conn.Close()
	if last {
		h.announcePresence(c.UserID, false)
	}
}

func (h *Hub) JoinConversation(c *Connection, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms.Join(conversationID, c)
}

func (h *Hub) LeaveConversation(c *Connection, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms.Leave(conversationID, c)
}

// Typing broadcasts a typing indicator to the room, excluding the sender so
// it never echoes back its own indicator.
func (h *Hub) Typing(c *Connection, conversationID uint, stopped bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	event := enums.SOCKET_EVENT_USER_TYPING
	if stopped {
		event = enums.SOCKET_EVENT_STOP_TYPING
	}
	h.broadcastToRoom(conversationID, socketModels.ServerEvent{
		Event: event,
		Payload: socketModels.TypingPayload{
			ConversationID: conversationID,
			UserID:         c.UserID,
		},
	}, c.SocketID)
}

// CallUser forwards a call offer to every connection of the callee so each
// open tab can ring. An offline callee is a silent no-op.
func (h *Hub) CallUser(c *Connection, toUserID uint, offer json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := h.registry.ConnectionsOf(toUserID)
	if len(targets) == 0 {
		log.Printf("call-user to user %v from %v: %v", toUserID, c.UserID, errs.ErrTargetUnreachable)
		return
	}
	event := socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_INCOMING_CALL,
		Payload: socketModels.IncomingCallPayload{
			Offer:        offer,
			FromUserID:   c.UserID,
			FromSocketID: c.SocketID,
		},
	}
	for _, target := range targets {
		h.writeEvent(target, event)
	}
}

// AnswerCall relays an answer to the one connection named in the payload.
func (h *Hub) AnswerCall(c *Connection, toSocketID string, answer json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sendToSocket(toSocketID, socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_CALL_ANSWERED,
		Payload: socketModels.CallAnsweredPayload{
			Answer:       answer,
			FromSocketID: c.SocketID,
		},
	})
}

// IceCandidate relays an ICE candidate to the one connection named in the
// payload.
func (h *Hub) IceCandidate(c *Connection, toSocketID string, candidate json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sendToSocket(toSocketID, socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_ICE_CANDIDATE,
		Payload: socketModels.IceCandidateForwardPayload{
			Candidate:    candidate,
			FromSocketID: c.SocketID,
		},
	})
}

// PublishMessage fans a persisted message out as new_message to the room and
// conversation_updated to every connection. With a relay attached the
// envelope takes the redis round trip so every hub instance delivers it.
func (h *Hub) PublishMessage(message *models.Message) error {
	if h.relay != nil {
		return h.relay.Publish(message)
	}
	h.deliverMessage(message)
	return nil
}

func (h *Hub) OnlineUsers() []uint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.OnlineUsers()
}

// Shutdown closes every registered connection and resets the hub state.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.registry.All() {
		conn.closed = true
		_ = conn.conn.Close()
	}
	h.registry = NewRegistry()
	h.rooms = NewRooms()
}

// announcePresence records the transition and fans it out. With a relay
// attached the envelope takes the redis round trip, like published messages,
// so every hub instance announces it to its own connections. Called under
// the hub mutex.
func (h *Hub) announcePresence(userID uint, online bool) {
	if h.status != nil {
		if err := h.status.SetUserOnlineStatus(userID, online); err != nil {
			log.Printf("Error recording online status for user %v: %v", userID, err)
		}
	}
	if h.relay != nil {
		if err := h.relay.PublishPresence(userID, online); err != nil {
			log.Printf("Error publishing presence for user %v: %v", userID, err)
		}
		return
	}
	h.presence.Announce(h.registry.All(), userID, online)
}

func (h *Hub) deliverPresence(userID uint, online bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presence.Announce(h.registry.All(), userID, online)
}

func (h *Hub) deliverMessage(message *models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.broadcastToRoom(message.ConversationID, socketModels.ServerEvent{
		Event:   enums.SOCKET_EVENT_NEW_MESSAGE,
		Payload: message,
	}, "")
	// conversation_updated deliberately goes to every connection, not just
	// room members, so conversation lists refresh without a room join.
	for _, conn := range h.registry.All() {
		h.writeEvent(conn, socketModels.ServerEvent{
			Event: enums.SOCKET_EVENT_CONVERSATION_UPDATED,
			Payload: socketModels.ConversationUpdatedPayload{
				ConversationID: message.ConversationID,
				LastMessage:    message,
			},
		})
	}
}

func (h *Hub) broadcastToRoom(conversationID uint, event socketModels.ServerEvent, excludeSocketID string) {
	for _, member := range h.rooms.Members(conversationID) {
		if member.SocketID == excludeSocketID {
			continue
		}
		h.writeEvent(member, event)
	}
}

func (h *Hub) sendToSocket(socketID string, event socketModels.ServerEvent) {
	conn, ok := h.registry.Get(socketID)
	if !ok {
		log.Printf("%v to socket %v: %v", event.Event, socketID, errs.ErrTargetUnreachable)
		return
	}
	h.writeEvent(conn, event)
}

// writeEvent writes one event to one connection. A failed write marks the
// connection closed so later broadcasts skip it; full teardown happens when
// its read loop notices and calls Unregister.
func (h *Hub) writeEvent(conn *Connection, event socketModels.ServerEvent) bool {
	if conn.closed {
		return false
	}
	if err := conn.conn.WriteJSON(event); err != nil {
		log.Printf("Error writing json to %v: %v", conn.SocketID, err)
		conn.closed = true
		_ = conn.conn.Close()
		return false
	}
	return true
}
