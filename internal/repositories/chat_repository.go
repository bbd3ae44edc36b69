package repositories

import (
	"time"

	"gorm.io/gorm"

	"presenceHub/internal/models"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

// SaveMessage creates the message and touches the conversation's updated_at
// in one transaction.
func (chr *ChatRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	var errors []error
	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", time.Now()).Error; err != nil {
			return err
		}
		return nil
	})
	if transactionErr != nil {
		errors = append(errors, transactionErr)
		return nil, errors
	}
	return message, nil
}

func (chr *ChatRepository) CheckConversationExists(conversationID uint) bool {
	var count int64
	chr.db.Model(&models.Conversation{}).Where("id = ?", conversationID).Count(&count)
	return count > 0
}

func (chr *ChatRepository) CheckUserInConversation(userID, conversationID uint) bool {
	var count int64
	chr.db.Model(&models.ConversationMember{}).Where("user_id = ? AND conversation_id = ?", userID, conversationID).Count(&count)
	return count > 0
}
