package services

import (
	"presenceHub/internal/errs"
	"presenceHub/internal/models"
)

// MessageStore is the durable collaborator the hub publishes through. The
// gorm repository implements it; tests use an in-memory store.
type MessageStore interface {
	SaveMessage(message *models.Message) (*models.Message, []error)
	CheckConversationExists(conversationID uint) bool
	CheckUserInConversation(userID, conversationID uint) bool
}

type ChatService struct {
	store MessageStore
}

func NewChatService(store MessageStore) *ChatService {
	return &ChatService{
		store: store,
	}
}

// SaveMessage persists a message and touches the conversation so it sorts to
// the top of conversation lists.
func (cs *ChatService) SaveMessage(message *models.Message) (*models.Message, []error) {
	var errors []error
	if message.Content == "" {
		errors = append(errors, errs.ErrEmptyMessageContent)
		return nil, errors
	}
	if !cs.store.CheckConversationExists(message.ConversationID) {
		errors = append(errors, errs.ErrInvalidConversationId)
		return nil, errors
	}
	return cs.store.SaveMessage(message)
}

func (cs *ChatService) CheckUserInConversation(userID, conversationID uint) bool {
	return cs.store.CheckUserInConversation(userID, conversationID)
}
