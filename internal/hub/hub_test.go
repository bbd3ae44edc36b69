package hub

import (
	"encoding/json"
	"errors"
	"testing"

	"presenceHub/internal/enums"
	"presenceHub/internal/models"
	socketModels "presenceHub/internal/models/socket"
)

type fakeConn struct {
	events    []socketModels.ServerEvent
	closed    bool
	failWrite bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.failWrite {
		return errors.New("write failed")
	}
	f.events = append(f.events, v.(socketModels.ServerEvent))
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func (f *fakeConn) named(event string) []socketModels.ServerEvent {
	var out []socketModels.ServerEvent
	for _, e := range f.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func TestPresenceFiresOncePerTransition(t *testing.T) {
	h := NewHub()

	observer := &fakeConn{}
	h.Register(2, observer)

	tab1 := &fakeConn{}
	tab2 := &fakeConn{}
	conn1 := h.Register(1, tab1)
	conn2 := h.Register(1, tab2)

	online := observer.named(enums.SOCKET_EVENT_USER_STATUS)
	if len(online) != 1 {
		t.Fatalf("expected exactly one user_status for two connects, got %d", len(online))
	}
	payload := online[0].Payload.(socketModels.UserStatusPayload)
	if payload.UserID != 1 || payload.Status != enums.USER_STATUS_ONLINE {
		t.Errorf("unexpected payload: %+v", payload)
	}

	h.Unregister(conn1)
	if got := observer.named(enums.SOCKET_EVENT_USER_STATUS); len(got) != 1 {
		t.Fatalf("offline fired before last connection closed, got %d events", len(got))
	}

	h.Unregister(conn2)
	statuses := observer.named(enums.SOCKET_EVENT_USER_STATUS)
	if len(statuses) != 2 {
		t.Fatalf("expected online+offline, got %d events", len(statuses))
	}
	payload = statuses[1].Payload.(socketModels.UserStatusPayload)
	if payload.UserID != 1 || payload.Status != enums.USER_STATUS_OFFLINE {
		t.Errorf("unexpected offline payload: %+v", payload)
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	h := NewHub()

	observer := &fakeConn{}
	h.Register(2, observer)

	conn := h.Register(1, &fakeConn{})
	h.Unregister(conn)
	h.Unregister(conn)

	if got := observer.named(enums.SOCKET_EVENT_USER_STATUS); len(got) != 2 {
		t.Errorf("double unregister produced extra presence events: %d", len(got))
	}
}

func TestRegisterHydratesOnlineUsers(t *testing.T) {
	h := NewHub()
	h.Register(1, &fakeConn{})
	h.Register(2, &fakeConn{})

	fc := &fakeConn{}
	h.Register(3, fc)

	hydrations := fc.named(enums.SOCKET_EVENT_INITIAL_ONLINE_USERS)
	if len(hydrations) != 1 {
		t.Fatalf("expected one initial_online_users, got %d", len(hydrations))
	}
	users := hydrations[0].Payload.(socketModels.OnlineUsersPayload).UserIDs
	if len(users) != 3 {
		t.Fatalf("expected 3 online users, got %v", users)
	}
	seen := make(map[uint]bool)
	for _, id := range users {
		seen[id] = true
	}
	for _, id := range []uint{1, 2, 3} {
		if !seen[id] {
			t.Errorf("user %d missing from initial_online_users %v", id, users)
		}
	}
}

func TestTypingExcludesSender(t *testing.T) {
	h := NewHub()

	fcA := &fakeConn{}
	fcB := &fakeConn{}
	connA := h.Register(1, fcA)
	connB := h.Register(2, fcB)
	h.JoinConversation(connA, 10)
	h.JoinConversation(connB, 10)

	h.Typing(connA, 10, false)

	got := fcB.named(enums.SOCKET_EVENT_USER_TYPING)
	if len(got) != 1 {
		t.Fatalf("expected one user_typing at B, got %d", len(got))
	}
	payload := got[0].Payload.(socketModels.TypingPayload)
	if payload.ConversationID != 10 || payload.UserID != 1 {
		t.Errorf("unexpected typing payload: %+v", payload)
	}
	if len(fcA.named(enums.SOCKET_EVENT_USER_TYPING)) != 0 {
		t.Error("sender received its own typing indicator")
	}

	h.Typing(connA, 10, true)
	if len(fcB.named(enums.SOCKET_EVENT_STOP_TYPING)) != 1 {
		t.Error("expected stop_typing at B")
	}
}

func TestDoubleJoinDeliversOnce(t *testing.T) {
	h := NewHub()

	connA := h.Register(1, &fakeConn{})
	fcB := &fakeConn{}
	connB := h.Register(2, fcB)

	h.JoinConversation(connB, 10)
	h.JoinConversation(connB, 10)
	h.JoinConversation(connA, 10)

	h.Typing(connA, 10, false)
	if got := fcB.named(enums.SOCKET_EVENT_USER_TYPING); len(got) != 1 {
		t.Errorf("double join caused %d deliveries", len(got))
	}
}

func TestDisconnectLeavesAllRooms(t *testing.T) {
	h := NewHub()

	fcA := &fakeConn{}
	fcB := &fakeConn{}
	connA := h.Register(1, fcA)
	connB := h.Register(2, fcB)
	h.JoinConversation(connA, 10)
	h.JoinConversation(connA, 11)
	h.JoinConversation(connB, 10)
	h.JoinConversation(connB, 11)

	h.Unregister(connB)

	h.Typing(connA, 10, false)
	h.Typing(connA, 11, false)
	if len(fcB.named(enums.SOCKET_EVENT_USER_TYPING)) != 0 {
		t.Error("disconnected connection still received room broadcasts")
	}
	if !fcB.closed {
		t.Error("unregistered connection was not closed")
	}
}

func TestCallUserReachesEveryTab(t *testing.T) {
	h := NewHub()

	tab1 := &fakeConn{}
	tab2 := &fakeConn{}
	h.Register(1, tab1)
	h.Register(1, tab2)
	connB := h.Register(2, &fakeConn{})

	offer := json.RawMessage(`{"sdp":"v=0"}`)
	h.CallUser(connB, 1, offer)

	for i, tab := range []*fakeConn{tab1, tab2} {
		calls := tab.named(enums.SOCKET_EVENT_INCOMING_CALL)
		if len(calls) != 1 {
			t.Fatalf("tab%d: expected one incoming-call, got %d", i+1, len(calls))
		}
		payload := calls[0].Payload.(socketModels.IncomingCallPayload)
		if payload.FromUserID != 2 {
			t.Errorf("tab%d: wrong caller %d", i+1, payload.FromUserID)
		}
		if payload.FromSocketID != connB.SocketID {
			t.Errorf("tab%d: wrong caller socket %v", i+1, payload.FromSocketID)
		}
		if string(payload.Offer) != string(offer) {
			t.Errorf("tab%d: offer not relayed verbatim", i+1)
		}
	}
}

func TestCallUserOfflineIsSilent(t *testing.T) {
	h := NewHub()

	fcB := &fakeConn{}
	connB := h.Register(2, fcB)

	h.CallUser(connB, 99, json.RawMessage(`{}`))

	if len(fcB.events) > 1 { // only the hydration event
		t.Errorf("caller received unexpected events: %+v", fcB.events)
	}
}

func TestAnswerAndIceRelayToNamedSocket(t *testing.T) {
	h := NewHub()

	fcA := &fakeConn{}
	fcB := &fakeConn{}
	connA := h.Register(1, fcA)
	connB := h.Register(2, fcB)

	answer := json.RawMessage(`{"sdp":"answer"}`)
	h.AnswerCall(connA, connB.SocketID, answer)

	answered := fcB.named(enums.SOCKET_EVENT_CALL_ANSWERED)
	if len(answered) != 1 {
		t.Fatalf("expected one call-answered, got %d", len(answered))
	}
	ap := answered[0].Payload.(socketModels.CallAnsweredPayload)
	if ap.FromSocketID != connA.SocketID || string(ap.Answer) != string(answer) {
		t.Errorf("unexpected call-answered payload: %+v", ap)
	}

	candidate := json.RawMessage(`{"candidate":"c"}`)
	h.IceCandidate(connB, connA.SocketID, candidate)

	candidates := fcA.named(enums.SOCKET_EVENT_ICE_CANDIDATE)
	if len(candidates) != 1 {
		t.Fatalf("expected one ice-candidate, got %d", len(candidates))
	}
	cp := candidates[0].Payload.(socketModels.IceCandidateForwardPayload)
	if cp.FromSocketID != connB.SocketID || string(cp.Candidate) != string(candidate) {
		t.Errorf("unexpected ice-candidate payload: %+v", cp)
	}

	// Relaying to a vanished socket must be a silent no-op.
	h.Unregister(connB)
	h.AnswerCall(connA, connB.SocketID, answer)
	if len(fcB.named(enums.SOCKET_EVENT_CALL_ANSWERED)) != 1 {
		t.Error("closed connection received a relayed answer")
	}
}

func TestPublishMessageFanout(t *testing.T) {
	h := NewHub()

	fcA := &fakeConn{}
	fcB := &fakeConn{}
	fcC := &fakeConn{}
	connA := h.Register(1, fcA)
	connB := h.Register(2, fcB)
	h.Register(3, fcC) // online but not in the room
	h.JoinConversation(connA, 10)
	h.JoinConversation(connB, 10)

	message := &models.Message{ConversationID: 10, SenderID: 1, Content: "hello"}
	if err := h.PublishMessage(message); err != nil {
		t.Fatalf("PublishMessage: %v", err)
	}

	for _, fc := range []*fakeConn{fcA, fcB} {
		if got := fc.named(enums.SOCKET_EVENT_NEW_MESSAGE); len(got) != 1 {
			t.Errorf("room member expected one new_message, got %d", len(got))
		}
	}
	if len(fcC.named(enums.SOCKET_EVENT_NEW_MESSAGE)) != 0 {
		t.Error("non-member received new_message")
	}

	// conversation_updated goes to every connection.
	for i, fc := range []*fakeConn{fcA, fcB, fcC} {
		updates := fc.named(enums.SOCKET_EVENT_CONVERSATION_UPDATED)
		if len(updates) != 1 {
			t.Fatalf("conn %d: expected one conversation_updated, got %d", i, len(updates))
		}
		payload := updates[0].Payload.(socketModels.ConversationUpdatedPayload)
		if payload.ConversationID != 10 || payload.LastMessage.Content != "hello" {
			t.Errorf("conn %d: unexpected conversation_updated payload: %+v", i, payload)
		}
	}
}

type fakeRelay struct {
	messages []*models.Message
	presence []socketModels.UserStatusPayload
}

func (f *fakeRelay) Publish(message *models.Message) error {
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeRelay) PublishPresence(userID uint, online bool) error {
	status := enums.USER_STATUS_OFFLINE
	if online {
		status = enums.USER_STATUS_ONLINE
	}
	f.presence = append(f.presence, socketModels.UserStatusPayload{UserID: userID, Status: status})
	return nil
}

func TestRelayCarriesPresenceTransitions(t *testing.T) {
	h := NewHub()
	fr := &fakeRelay{}
	h.relay = fr

	observer := &fakeConn{}
	h.Register(2, observer)

	tab1 := &fakeConn{}
	tab2 := &fakeConn{}
	conn1 := h.Register(1, tab1)
	conn2 := h.Register(1, tab2)

	// With a relay attached, transitions go over the channel instead of
	// straight to local connections.
	if len(observer.named(enums.SOCKET_EVENT_USER_STATUS)) != 0 {
		t.Error("presence announced locally despite attached relay")
	}
	if len(fr.presence) != 2 { // observer online, user 1 online, nothing for the second tab
		t.Fatalf("expected 2 published transitions, got %+v", fr.presence)
	}
	if p := fr.presence[1]; p.UserID != 1 || p.Status != enums.USER_STATUS_ONLINE {
		t.Errorf("unexpected published transition: %+v", p)
	}

	// The subscription loop feeds envelopes back into deliverPresence, which
	// fans out to local connections.
	h.deliverPresence(1, true)
	statuses := observer.named(enums.SOCKET_EVENT_USER_STATUS)
	if len(statuses) != 1 {
		t.Fatalf("expected one user_status after delivery, got %d", len(statuses))
	}
	payload := statuses[0].Payload.(socketModels.UserStatusPayload)
	if payload.UserID != 1 || payload.Status != enums.USER_STATUS_ONLINE {
		t.Errorf("unexpected delivered payload: %+v", payload)
	}

	h.Unregister(conn1)
	if len(fr.presence) != 2 {
		t.Fatal("offline published before last connection closed")
	}
	h.Unregister(conn2)
	if len(fr.presence) != 3 {
		t.Fatalf("expected offline transition, got %+v", fr.presence)
	}
	if p := fr.presence[2]; p.UserID != 1 || p.Status != enums.USER_STATUS_OFFLINE {
		t.Errorf("unexpected offline transition: %+v", p)
	}
}

func TestRelayCarriesPublishedMessages(t *testing.T) {
	h := NewHub()
	fr := &fakeRelay{}
	h.relay = fr

	fcA := &fakeConn{}
	connA := h.Register(1, fcA)
	h.JoinConversation(connA, 10)

	message := &models.Message{ConversationID: 10, SenderID: 1, Content: "hello"}
	if err := h.PublishMessage(message); err != nil {
		t.Fatalf("PublishMessage: %v", err)
	}
	if len(fr.messages) != 1 || fr.messages[0] != message {
		t.Fatalf("expected message published to relay, got %+v", fr.messages)
	}
	if len(fcA.named(enums.SOCKET_EVENT_NEW_MESSAGE)) != 0 {
		t.Error("message delivered locally despite attached relay")
	}

	h.deliverMessage(message)
	if len(fcA.named(enums.SOCKET_EVENT_NEW_MESSAGE)) != 1 {
		t.Error("delivered message did not reach the room")
	}
}

type statusCall struct {
	userID uint
	online bool
}

type fakeStatusRecorder struct {
	calls []statusCall
}

func (f *fakeStatusRecorder) SetUserOnlineStatus(userID uint, online bool) error {
	f.calls = append(f.calls, statusCall{userID: userID, online: online})
	return nil
}

func TestStatusRecorderSeesEachTransitionOnce(t *testing.T) {
	h := NewHub()
	recorder := &fakeStatusRecorder{}
	h.SetStatusRecorder(recorder)

	conn1 := h.Register(1, &fakeConn{})
	conn2 := h.Register(1, &fakeConn{})

	if len(recorder.calls) != 1 {
		t.Fatalf("expected one recorded transition for two connects, got %+v", recorder.calls)
	}
	if c := recorder.calls[0]; c.userID != 1 || !c.online {
		t.Errorf("unexpected recorded transition: %+v", c)
	}

	h.Unregister(conn1)
	if len(recorder.calls) != 1 {
		t.Fatal("offline recorded before last connection closed")
	}

	h.Unregister(conn2)
	if len(recorder.calls) != 2 {
		t.Fatalf("expected online+offline recorded, got %+v", recorder.calls)
	}
	if c := recorder.calls[1]; c.userID != 1 || c.online {
		t.Errorf("unexpected offline record: %+v", c)
	}
}

func TestFailedWriteSkipsConnection(t *testing.T) {
	h := NewHub()

	fcA := &fakeConn{}
	fcB := &fakeConn{failWrite: true}
	connA := h.Register(1, fcA)
	connB := h.Register(2, fcB)
	h.JoinConversation(connA, 10)
	h.JoinConversation(connB, 10)

	h.Typing(connA, 10, false)
	if !fcB.closed {
		t.Error("connection with failing transport was not closed")
	}

	// Later broadcasts must silently skip the dead connection.
	fcB.failWrite = false
	h.Typing(connA, 10, false)
	if len(fcB.events) != 0 {
		t.Errorf("dead connection received events: %+v", fcB.events)
	}
}
