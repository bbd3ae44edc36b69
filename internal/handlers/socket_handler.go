package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"presenceHub/internal/enums"
	"presenceHub/internal/errs"
	"presenceHub/internal/hub"
	"presenceHub/internal/models"
	socketModels "presenceHub/internal/models/socket"
	"presenceHub/internal/msgs"
	"presenceHub/internal/services"
)

// SocketHandler authenticates incoming websocket connections and pumps their
// events into the hub. Authentication failure is the only fatal condition: it
// rejects the handshake before the transport exists. Every later problem with
// an event is dropped locally and the connection stays open.
type SocketHandler struct {
	ctx         context.Context
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	authService *services.AuthenticationService
	chatService *services.ChatService
	authTimeout time.Duration
}

func NewSocketHandler(
	ctx context.Context,
	h *hub.Hub,
	authService *services.AuthenticationService,
	chatService *services.ChatService,
	authTimeout time.Duration,
) *SocketHandler {
	return &SocketHandler{
		ctx: ctx,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub:         h,
		authService: authService,
		chatService: chatService,
		authTimeout: authTimeout,
	}
}

func (sh *SocketHandler) HandleSocketRoute(ctx *gin.Context) {
	jwtToken := ctx.Request.Header.Get("Authorization")
	if jwtToken == "" {
		jwtToken = ctx.Query("token")
	}

	authCtx, cancel := context.WithTimeout(sh.ctx, sh.authTimeout)
	defer cancel()
	userInfo, err := sh.authService.VerifyToken(authCtx, jwtToken)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	ws, err := sh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	conn := sh.hub.Register(userInfo.ID, ws)
	defer sh.hub.Unregister(conn)

	sh.handleIncomingEvents(ws, conn)
}

func (sh *SocketHandler) handleIncomingEvents(ws *websocket.Conn, conn *hub.Connection) {
	for {
		var event socketModels.Event
		if err := ws.ReadJSON(&event); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Error reading json from %v: %v", conn.SocketID, err)
			}
			return
		}
		sh.dispatch(conn, event)
	}
}

func (sh *SocketHandler) dispatch(conn *hub.Connection, event socketModels.Event) {
	switch event.Event {
	case enums.SOCKET_EVENT_JOIN_CONVERSATION:
		sh.handleJoinConversation(conn, event.Payload)
	case enums.SOCKET_EVENT_LEAVE_CONVERSATION:
		sh.handleLeaveConversation(conn, event.Payload)
	case enums.SOCKET_EVENT_TYPING:
		sh.handleTyping(conn, event.Payload, false)
	case enums.SOCKET_EVENT_STOP_TYPING:
		sh.handleTyping(conn, event.Payload, true)
	case enums.SOCKET_EVENT_SEND_MESSAGE:
		sh.handleSendMessage(conn, event.Payload)
	case enums.SOCKET_EVENT_CALL_USER:
		sh.handleCallUser(conn, event.Payload)
	case enums.SOCKET_EVENT_ANSWER_CALL:
		sh.handleAnswerCall(conn, event.Payload)
	case enums.SOCKET_EVENT_ICE_CANDIDATE:
		sh.handleIceCandidate(conn, event.Payload)
	default:
		log.Printf("Unknown event from %v: %v", conn.SocketID, event.Event)
	}
}

func (sh *SocketHandler) handleJoinConversation(conn *hub.Connection, payload json.RawMessage) {
	var p socketModels.ConversationPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ConversationID == 0 {
		log.Printf("%v: dropping join_conversation from %v: %v", errs.ErrMalformedEvent, conn.SocketID, err)
		return
	}
	if !sh.chatService.CheckUserInConversation(conn.UserID, p.ConversationID) {
		log.Printf("%v: user %v, conversation %v, dropping join", errs.ErrNotConversationMember, conn.UserID, p.ConversationID)
		return
	}
	sh.hub.JoinConversation(conn, p.ConversationID)
}

func (sh *SocketHandler) handleLeaveConversation(conn *hub.Connection, payload json.RawMessage) {
	var p socketModels.ConversationPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ConversationID == 0 {
		log.Printf("%v: dropping leave_conversation from %v: %v", errs.ErrMalformedEvent, conn.SocketID, err)
		return
	}
	sh.hub.LeaveConversation(conn, p.ConversationID)
}

func (sh *SocketHandler) handleTyping(conn *hub.Connection, payload json.RawMessage, stopped bool) {
	var p socketModels.ConversationPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ConversationID == 0 {
		log.Printf("%v: dropping typing event from %v: %v", errs.ErrMalformedEvent, conn.SocketID, err)
		return
	}
	sh.hub.Typing(conn, p.ConversationID, stopped)
}

func (sh *SocketHandler) handleSendMessage(conn *hub.Connection, payload json.RawMessage) {
	var p socketModels.SendMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ConversationID == 0 {
		log.Printf("%v: dropping send_message from %v: %v", errs.ErrMalformedEvent, conn.SocketID, err)
		return
	}
	savedMessage, saveErrs := sh.chatService.SaveMessage(&models.Message{
		ConversationID: p.ConversationID,
		SenderID:       conn.UserID,
		Content:        p.Content,
	})
	if len(saveErrs) > 0 {
		log.Printf("Error saving message from %v: %v", conn.UserID, saveErrs)
		return
	}
	if err := sh.hub.PublishMessage(savedMessage); err != nil {
		log.Printf("Error publishing message %v: %v", savedMessage.ID, err)
	}
}

func (sh *SocketHandler) handleCallUser(conn *hub.Connection, payload json.RawMessage) {
	var p socketModels.CallUserPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ToUserID == 0 {
		log.Printf("%v: dropping call-user from %v: %v", errs.ErrMalformedEvent, conn.SocketID, err)
		return
	}
	sh.hub.CallUser(conn, p.ToUserID, p.Offer)
}

func (sh *SocketHandler) handleAnswerCall(conn *hub.Connection, payload json.RawMessage) {
	var p socketModels.AnswerCallPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ToSocketID == "" {
		log.Printf("%v: dropping answer-call from %v: %v", errs.ErrMalformedEvent, conn.SocketID, err)
		return
	}
	sh.hub.AnswerCall(conn, p.ToSocketID, p.Answer)
}

func (sh *SocketHandler) handleIceCandidate(conn *hub.Connection, payload json.RawMessage) {
	var p socketModels.IceCandidatePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.ToSocketID == "" {
		log.Printf("%v: dropping ice-candidate from %v: %v", errs.ErrMalformedEvent, conn.SocketID, err)
		return
	}
	sh.hub.IceCandidate(conn, p.ToSocketID, p.Candidate)
}
