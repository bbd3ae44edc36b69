package socket

import (
	"encoding/json"

	"presenceHub/internal/models"
)

// Event is the inbound wire envelope read off a websocket connection.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ServerEvent is the outbound wire envelope written to connections.
type ServerEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Room-scoped events keep the snake_case field naming of the chat protocol;
// call signaling payloads keep the camelCase socket-id naming of the
// signaling protocol. Both are part of the wire contract.

type ConversationPayload struct {
	ConversationID uint `json:"conversation_id"`
}

type TypingPayload struct {
	ConversationID uint `json:"conversation_id"`
	UserID         uint `json:"user_id"`
}

type SendMessagePayload struct {
	ConversationID uint   `json:"conversation_id"`
	Content        string `json:"content"`
}

type ConversationUpdatedPayload struct {
	ConversationID uint            `json:"conversation_id"`
	LastMessage    *models.Message `json:"last_message"`
}

type UserStatusPayload struct {
	UserID uint   `json:"user_id"`
	Status string `json:"status"`
}

type OnlineUsersPayload struct {
	UserIDs []uint `json:"user_ids"`
}

type CallUserPayload struct {
	ToUserID uint            `json:"toUserId"`
	Offer    json.RawMessage `json:"offer"`
}

type IncomingCallPayload struct {
	Offer        json.RawMessage `json:"offer"`
	FromUserID   uint            `json:"fromUserId"`
	FromSocketID string          `json:"fromSocketId"`
}

type AnswerCallPayload struct {
	ToSocketID string          `json:"toSocketId"`
	Answer     json.RawMessage `json:"answer"`
}

type CallAnsweredPayload struct {
	Answer       json.RawMessage `json:"answer"`
	FromSocketID string          `json:"fromSocketId"`
}

type IceCandidatePayload struct {
	ToSocketID string          `json:"toSocketId"`
	Candidate  json.RawMessage `json:"candidate"`
}

type IceCandidateForwardPayload struct {
	Candidate    json.RawMessage `json:"candidate"`
	FromSocketID string          `json:"fromSocketId"`
}
